package setup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/langx-app/server/internal/models"
	"github.com/langx-app/server/internal/session"
)

// Step is a position in the strictly ordered account-setup flow.
type Step int

const (
	StepNotStarted Step = iota
	StepUsername
	StepLanguages
	StepBio
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepNotStarted:
		return "not_started"
	case StepUsername:
		return "username"
	case StepLanguages:
		return "languages"
	case StepBio:
		return "bio"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ImageStore resolves a locally chosen image into two durable locators.
type ImageStore interface {
	UploadProfileImage(ctx context.Context, imageRef string) (fullURL, compressedURL string, err error)
}

// Workflow accumulates a draft profile across setup steps and finalizes it
// into the document store. Forward navigation re-validates even when the UI
// already checked CanAdvance; backward navigation never validates.
type Workflow struct {
	mu       sync.Mutex
	step     Step
	draft    *models.Profile
	imageRef string
	hasImage bool
	creating bool

	sess     *session.Session
	profiles models.ProfileRepo
	images   ImageStore
	logger   *slog.Logger
}

func NewWorkflow(sess *session.Session, profiles models.ProfileRepo, images ImageStore, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		step:     StepNotStarted,
		draft:    models.NewProfile(),
		sess:     sess,
		profiles: profiles,
		images:   images,
		logger:   logger,
	}
}

func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// InFlight reports whether a finalize write is currently outstanding.
func (w *Workflow) InFlight() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.creating
}

// Draft returns a deep copy of the accumulated draft.
func (w *Workflow) Draft() models.Profile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.draft.Clone()
}

func (w *Workflow) SetName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Raw input; normalization to the accepted value happens on Advance.
	w.draft.Name = name
}

// SetImage records the locally chosen image reference. Upload to durable
// storage is deferred until finalize.
func (w *Workflow) SetImage(imageRef string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.imageRef = imageRef
	w.hasImage = imageRef != ""
}

func (w *Workflow) SetBirthday(birthday time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Birthday = birthday
}

func (w *Workflow) SetSex(sex string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Sex = sex
}

func (w *Workflow) SetEmail(email string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Email = email
}

func (w *Workflow) SetBio(bio string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Bio = bio
}

func (w *Workflow) SetLearningGoals(goals string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.LearningGoals = goals
}

func (w *Workflow) SetHobbies(hobbies string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.HobbiesAndInterests = hobbies
}

func (w *Workflow) SetNativeLanguages(codes []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.NativeLanguages = append([]string{}, codes...)
}

func (w *Workflow) SetTargetLanguage(code string, level int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.TargetLanguages[code] = level
}

// CanAdvance reports whether the current step's validators all pass. The UI
// uses this to enable forward navigation; Advance re-checks regardless.
func (w *Workflow) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validateStep() == nil
}

// Advance moves to the next step after re-validating the current one. At the
// username step the draft name is normalized to the validator's accepted
// value before moving on.
func (w *Workflow) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepNotStarted:
		w.step = StepUsername
		return nil
	case StepUsername:
		accepted, err := ValidateUsername(w.draft.Name, w.hasImage)
		if err != nil {
			return err
		}
		w.draft.SetName(accepted)
		w.step = StepLanguages
		return nil
	case StepLanguages:
		if err := w.validateLanguages(); err != nil {
			return err
		}
		w.step = StepBio
		return nil
	case StepBio:
		return fmt.Errorf("bio is the final step; call Finalize")
	default:
		return fmt.Errorf("setup already complete")
	}
}

// Back returns to the previous step. Always permitted; no validation, no
// persistence. It does not cancel an in-flight finalize.
func (w *Workflow) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepUsername && w.step < StepComplete {
		w.step--
	}
}

func (w *Workflow) validateStep() error {
	switch w.step {
	case StepUsername:
		_, err := ValidateUsername(w.draft.Name, w.hasImage)
		return err
	case StepLanguages:
		return w.validateLanguages()
	case StepBio:
		return ValidateBio(w.draft.Bio)
	default:
		return nil
	}
}

func (w *Workflow) validateLanguages() error {
	if len(w.draft.NativeLanguages) == 0 {
		return &ValidationError{Field: "nativeLanguages", Kind: Empty}
	}
	if len(w.draft.TargetLanguages) == 0 {
		return &ValidationError{Field: "targetLanguages", Kind: Empty}
	}
	return nil
}

// Finalize persists the draft as the user's profile record. At most one
// finalize is in flight per workflow: a second concurrent call observes the
// flag and returns immediately as a no-op. On failure the flag is cleared and
// the draft kept, so the user can retry.
func (w *Workflow) Finalize(ctx context.Context) error {
	w.mu.Lock()
	if w.creating {
		w.mu.Unlock()
		return nil
	}
	if w.step == StepComplete {
		w.mu.Unlock()
		return nil
	}
	// The flow is strictly ordered; a draft that has not cleared every gate up
	// to the bio step must never be persisted.
	if w.step != StepBio {
		w.mu.Unlock()
		return ErrSetupIncomplete
	}
	if err := ValidateBio(w.draft.Bio); err != nil {
		w.mu.Unlock()
		return err
	}
	w.creating = true
	imageRef := w.imageRef
	needsUpload := w.draft.ProfileImageUrl == "" && imageRef != ""
	w.mu.Unlock()

	if needsUpload {
		fullURL, compressedURL, err := w.images.UploadProfileImage(ctx, imageRef)
		if err != nil {
			w.abortFinalize()
			return &PersistenceError{Err: fmt.Errorf("image upload failed: %w", err)}
		}
		w.mu.Lock()
		w.draft.ProfileImageUrl = fullURL
		w.draft.CompressedProfileImageUrl = compressedURL
		w.mu.Unlock()
	}

	// The record is keyed by the authenticated user id as it stands now, not
	// as it stood when setup began.
	userID, ok := w.sess.CurrentUserID()
	if !ok {
		w.abortFinalize()
		return &PersistenceError{Err: fmt.Errorf("no authenticated session")}
	}

	// Deep-copy the draft so a concurrent setter cannot mutate the collection
	// fields while the repo marshals them.
	w.mu.Lock()
	w.draft.ID = userID
	w.draft.LastOnline = time.Now().UTC()
	record := w.draft.Clone()
	w.mu.Unlock()

	if err := w.profiles.CreateProfile(ctx, record); err != nil {
		w.abortFinalize()
		return &PersistenceError{Err: err}
	}

	// The result applies even if the UI has since navigated away.
	w.sess.CompleteSetup()

	w.mu.Lock()
	w.step = StepComplete
	w.creating = false
	w.mu.Unlock()

	w.logger.Info("profile created", "user_id", userID)
	return nil
}

func (w *Workflow) abortFinalize() {
	w.mu.Lock()
	w.creating = false
	w.mu.Unlock()
}
