package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"couple-diary-system/models"

	"gorm.io/gorm"
)

var (
	ErrEncounterNotFound = errors.New("encounter not found")
	ErrNotEncounterOwner = errors.New("only the owner can modify an encounter")
	ErrNoAccess          = errors.New("encounter belongs to someone else")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrProposalClosed    = errors.New("proposal already answered")
	ErrNotRecipient      = errors.New("only the recipient can answer a proposal")
)

// EncounterInput carries the client-supplied fields for create/update.
type EncounterInput struct {
	Date            time.Time `json:"date"`
	TimeOfDay       *string   `json:"time_of_day,omitempty"`
	Position        string    `json:"position"`
	CustomPosition  string    `json:"custom_position,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Rating          *int      `json:"rating,omitempty"`
}

type EncounterService struct {
	DB            *gorm.DB
	Gamification  *GamificationService
	Notifications *NotificationService
	Challenges    *ChallengeService
}

func NewEncounterService(db *gorm.DB, gamification *GamificationService, notifications *NotificationService, challenges *ChallengeService) *EncounterService {
	return &EncounterService{
		DB:            db,
		Gamification:  gamification,
		Notifications: notifications,
		Challenges:    challenges,
	}
}

// normalizePosition resolves a client tag against the catalog. Unknown tags
// become "other" with the original tag preserved as the custom label, so the
// catalog stays the single source of truth for standard tags.
func normalizePosition(tag, custom string) (string, string) {
	if models.IsKnownPosition(tag) {
		return tag, ""
	}
	if custom == "" && tag != "" && tag != models.PositionOther {
		custom = tag
	}
	return models.PositionOther, custom
}

// Create logs a new encounter and runs the full evaluation pipeline: streak,
// points, challenges, achievements, partner notification. Evaluation errors
// are logged, not surfaced; the encounter write is the primary action.
func (s *EncounterService) Create(userID string, input EncounterInput) (*models.Encounter, error) {
	return s.create(userID, input, true)
}

// notifyPartner is false when the partner already knows about the encounter,
// e.g. they just accepted the proposal that produced it.
func (s *EncounterService) create(userID string, input EncounterInput, notifyPartner bool) (*models.Encounter, error) {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, ErrInvalidRating
	}
	if input.Date.IsZero() {
		return nil, errors.New("date is required")
	}

	position, custom := normalizePosition(input.Position, input.CustomPosition)
	encounter := models.Encounter{
		UserID:          userID,
		Date:            DateOnly(input.Date),
		TimeOfDay:       input.TimeOfDay,
		Position:        position,
		CustomPosition:  custom,
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
		Rating:          input.Rating,
	}
	if err := s.DB.Create(&encounter).Error; err != nil {
		return nil, err
	}

	s.evaluateAfterEncounter(userID, &encounter)

	if notifyPartner {
		label := models.PositionLabel(encounter.Position, encounter.CustomPosition)
		s.Notifications.NotifyPartner(userID, models.NotificationNewEncounter,
			fmt.Sprintf("New encounter logged: %s on %s", label, encounter.Date.Format("Jan 2")),
			&encounter.ID)
	}

	return &encounter, nil
}

func (s *EncounterService) evaluateAfterEncounter(userID string, encounter *models.Encounter) {
	if _, err := s.Gamification.UpdateStreak(userID, encounter.Date); err != nil {
		log.Printf("[ENCOUNTER] streak update failed for %s: %v", userID, err)
	}
	if _, err := s.Gamification.AwardPoints(userID, PointsEncounterLogged, "encounter_logged"); err != nil {
		log.Printf("[ENCOUNTER] point award failed for %s: %v", userID, err)
	}
	if err := s.Challenges.RecordEncounter(userID, encounter); err != nil {
		log.Printf("[ENCOUNTER] challenge progress failed for %s: %v", userID, err)
	}
	if _, err := s.Gamification.CheckAchievements(userID); err != nil {
		log.Printf("[ENCOUNTER] achievement check failed for %s: %v", userID, err)
	}
}

// visibleUserIDs returns the IDs whose encounters userID may read (self plus
// partner, when paired).
func (s *EncounterService) visibleUserIDs(userID string) ([]string, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	ids := []string{user.ID}
	if user.PartnerID != nil {
		ids = append(ids, *user.PartnerID)
	}
	return ids, nil
}

// List returns the caller's and their partner's encounters, newest first.
func (s *EncounterService) List(userID string, limit, offset int) ([]models.Encounter, error) {
	ids, err := s.visibleUserIDs(userID)
	if err != nil {
		return nil, err
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var encounters []models.Encounter
	err = s.DB.Where("user_id IN ?", ids).
		Order("date DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&encounters).Error
	return encounters, err
}

// Get fetches one encounter the caller may read.
func (s *EncounterService) Get(userID, encounterID string) (*models.Encounter, error) {
	var encounter models.Encounter
	if err := s.DB.First(&encounter, "id = ?", encounterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEncounterNotFound
		}
		return nil, err
	}

	ids, err := s.visibleUserIDs(userID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if encounter.UserID == id {
			return &encounter, nil
		}
	}
	return nil, ErrNoAccess
}

// Update modifies an encounter owned by userID. Stats are not rewound or
// replayed for edits; only new encounters move the counters.
func (s *EncounterService) Update(userID, encounterID string, input EncounterInput) (*models.Encounter, error) {
	var encounter models.Encounter
	if err := s.DB.First(&encounter, "id = ?", encounterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEncounterNotFound
		}
		return nil, err
	}
	if encounter.UserID != userID {
		return nil, ErrNotEncounterOwner
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, ErrInvalidRating
	}

	if !input.Date.IsZero() {
		encounter.Date = DateOnly(input.Date)
	}
	encounter.TimeOfDay = input.TimeOfDay
	encounter.Position, encounter.CustomPosition = normalizePosition(input.Position, input.CustomPosition)
	encounter.DurationMinutes = input.DurationMinutes
	encounter.Notes = input.Notes
	encounter.Rating = input.Rating

	if err := s.DB.Save(&encounter).Error; err != nil {
		return nil, err
	}
	return &encounter, nil
}

// Delete removes an encounter owned by userID. Accumulated stats stay as they
// are; deletion does not rewind streaks or points.
func (s *EncounterService) Delete(userID, encounterID string) error {
	res := s.DB.Where("id = ? AND user_id = ?", encounterID, userID).Delete(&models.Encounter{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEncounterNotFound
	}
	return nil
}

// Rate records or updates the caller's rating of an encounter. The composite
// unique index on (encounter, rater) is the storage-level guarantee against
// duplicates; points are awarded only on the first rating.
func (s *EncounterService) Rate(raterID, encounterID string, rating int, comment string) (*models.EncounterRating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	encounter, err := s.Get(raterID, encounterID)
	if err != nil {
		return nil, err
	}

	var existing models.EncounterRating
	err = s.DB.Where("encounter_id = ? AND user_id = ?", encounterID, raterID).First(&existing).Error
	if err == nil {
		existing.Rating = rating
		existing.Comment = comment
		if err := s.DB.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := models.EncounterRating{
		EncounterID: encounterID,
		UserID:      raterID,
		Rating:      rating,
		Comment:     comment,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, err
	}

	if _, err := s.Gamification.AwardPoints(raterID, PointsRatingGiven, "rating_given"); err != nil {
		log.Printf("[RATING] point award failed for %s: %v", raterID, err)
	}
	for _, id := range []string{raterID, encounter.UserID} {
		if _, err := s.Gamification.CheckAchievements(id); err != nil {
			log.Printf("[RATING] achievement check failed for %s: %v", id, err)
		}
	}

	if encounter.UserID != raterID {
		s.Notifications.NotifyPartner(raterID, models.NotificationNewRating,
			fmt.Sprintf("Your partner rated an encounter %d★", rating), &encounterID)
	}

	return &row, nil
}

// Ratings lists all ratings on an encounter the caller may read.
func (s *EncounterService) Ratings(userID, encounterID string) ([]models.EncounterRating, error) {
	if _, err := s.Get(userID, encounterID); err != nil {
		return nil, err
	}
	var ratings []models.EncounterRating
	err := s.DB.Where("encounter_id = ?", encounterID).Order("created_at ASC").Find(&ratings).Error
	return ratings, err
}

// Propose creates a pending encounter proposal for the caller's partner.
func (s *EncounterService) Propose(userID string, date time.Time, position, notes string) (*models.ProposedEncounter, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	if user.PartnerID == nil {
		return nil, ErrNotPaired
	}
	if date.IsZero() {
		return nil, errors.New("date is required")
	}

	normalized, _ := normalizePosition(position, "")
	proposal := models.ProposedEncounter{
		ProposerID:  userID,
		RecipientID: *user.PartnerID,
		Date:        DateOnly(date),
		Position:    normalized,
		Notes:       notes,
	}
	if err := s.DB.Create(&proposal).Error; err != nil {
		return nil, err
	}

	s.Notifications.NotifyPartner(userID, models.NotificationProposal,
		fmt.Sprintf("%s proposed an encounter for %s 😏", user.Username, proposal.Date.Format("Jan 2")), nil)

	return &proposal, nil
}

// Proposals lists proposals sent to or by the caller.
func (s *EncounterService) Proposals(userID string) ([]models.ProposedEncounter, error) {
	var proposals []models.ProposedEncounter
	err := s.DB.Where("proposer_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

// Respond answers a pending proposal. Accepting materializes a real encounter
// owned by the proposer (running the full evaluation pipeline); both answers
// are terminal.
func (s *EncounterService) Respond(userID, proposalID string, accept bool) (*models.ProposedEncounter, error) {
	var proposal models.ProposedEncounter
	if err := s.DB.First(&proposal, "id = ?", proposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	if proposal.RecipientID != userID {
		return nil, ErrNotRecipient
	}
	if proposal.Status != models.ProposalPending {
		return nil, ErrProposalClosed
	}

	now := time.Now()
	proposal.RespondedAt = &now
	verdict := "declined"
	if accept {
		proposal.Status = models.ProposalAccepted
		verdict = "accepted"
	} else {
		proposal.Status = models.ProposalDeclined
	}
	if err := s.DB.Save(&proposal).Error; err != nil {
		return nil, err
	}

	if accept {
		// the recipient just accepted; a "new encounter" ping would only echo
		// their own action back at them
		if _, err := s.create(proposal.ProposerID, EncounterInput{
			Date:     proposal.Date,
			Position: proposal.Position,
			Notes:    proposal.Notes,
		}, false); err != nil {
			log.Printf("[PROPOSAL] failed to materialize encounter for %s: %v", proposal.ProposerID, err)
		}
	}

	s.Notifications.NotifyPartner(userID, models.NotificationProposalReply,
		fmt.Sprintf("Your proposal for %s was %s", proposal.Date.Format("Jan 2"), verdict), nil)

	return &proposal, nil
}
