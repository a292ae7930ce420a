package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"couple-diary-system/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Channel identifiers reported in DeliveryOutcome.
const (
	ChannelSignal = "signal"
	ChannelTwilio = "twilio"
	ChannelNone   = "none"
)

// DeliveryOutcome is the terminal state of one Deliver call.
type DeliveryOutcome struct {
	Delivered bool   `json:"delivered"`
	Channel   string `json:"channel"`
	Err       string `json:"error,omitempty"`
}

// Channel is one external delivery mechanism. Adding a channel means adding an
// entry to the dispatcher's ordered list, not new control flow.
type Channel interface {
	Name() string
	Configured() bool
	Send(to, body string) error
}

// --- Signal (primary) ---

// SignalChannel posts to a signal-cli REST API relay.
type SignalChannel struct {
	APIURL string
	Number string // sender number; empty means unconfigured
	Client *http.Client
}

func NewSignalChannelFromEnv() *SignalChannel {
	apiURL := os.Getenv("SIGNAL_API_URL")
	if apiURL == "" {
		apiURL = "http://signal:8080"
	}
	return &SignalChannel{
		APIURL: apiURL,
		Number: os.Getenv("SIGNAL_NUMBER"),
		Client: utils.HTTPClient,
	}
}

func (c *SignalChannel) Name() string { return ChannelSignal }

func (c *SignalChannel) Configured() bool { return c.Number != "" }

func (c *SignalChannel) Send(to, body string) error {
	payload := map[string]interface{}{
		"message":    body,
		"number":     c.Number,
		"recipients": []string{utils.NormalizePhone(to)},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := c.Client.Post(c.APIURL+"/v2/send", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("signal request failed: %w", err)
	}
	defer resp.Body.Close()

	// signal-cli REST answers 201 on accepted sends
	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("signal API returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// --- Twilio SMS (secondary) ---

// TwilioChannel sends plain SMS through Twilio's REST API. One instance is
// shared by every request goroutine and the workers, so the client init is
// guarded by a sync.Once.
type TwilioChannel struct {
	AccountSID string
	AuthToken  string
	FromNumber string

	initOnce sync.Once
	client   *twilio.RestClient
}

func NewTwilioChannelFromEnv() *TwilioChannel {
	return &TwilioChannel{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		FromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (c *TwilioChannel) Name() string { return ChannelTwilio }

// Configured requires the full credential triple.
func (c *TwilioChannel) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

func (c *TwilioChannel) Send(to, body string) error {
	c.initOnce.Do(func() {
		c.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: c.AccountSID,
			Password: c.AuthToken,
		})
	})

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(utils.NormalizePhone(to))
	params.SetFrom(c.FromNumber)
	params.SetBody(body)

	if _, err := c.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	return nil
}

// --- Dispatcher ---

// Dispatcher walks an ordered channel list until one delivers. Failures are
// captured in the outcome, never raised: the in-app notification row is the
// durable record and external paging is best-effort on top of it.
type Dispatcher struct {
	Channels []Channel
}

func NewDispatcherFromEnv() *Dispatcher {
	return &Dispatcher{
		Channels: []Channel{
			NewSignalChannelFromEnv(),
			NewTwilioChannelFromEnv(),
		},
	}
}

// Deliver attempts each configured channel once, in order. No retries.
func (d *Dispatcher) Deliver(to, body string) DeliveryOutcome {
	var errs []string
	for _, ch := range d.Channels {
		if !ch.Configured() {
			log.Printf("[NOTIFY] %s not configured, skipping", ch.Name())
			errs = append(errs, fmt.Sprintf("%s: not configured", ch.Name()))
			continue
		}
		if err := ch.Send(to, body); err != nil {
			log.Printf("⚠️ [NOTIFY] %s delivery failed: %v", ch.Name(), err)
			errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
			continue
		}
		log.Printf("✅ [NOTIFY] delivered via %s", ch.Name())
		return DeliveryOutcome{Delivered: true, Channel: ch.Name()}
	}

	log.Printf("❌ [NOTIFY] all channels failed for %s", to)
	return DeliveryOutcome{Delivered: false, Channel: ChannelNone, Err: strings.Join(errs, "; ")}
}
