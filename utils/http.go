package utils

import (
	"net/http"
	"time"
)

var HTTPClient = &http.Client{
	Timeout: 10 * time.Second, // external channel calls must not hang a request longer than this
}
