package inspection

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/inspection-api/internal/domain"
	"github.com/inspection-api/internal/pkg/id"
	"github.com/inspection-api/internal/pkg/token"
)

const (
	// uploadURLTTL bounds how long a minted PUT URL stays usable.
	uploadURLTTL = 15 * time.Minute
	// viewURLTTL bounds how long a minted GET URL stays usable.
	viewURLTTL = time.Hour
)

// Token invalidity reasons reported by the validation gate.
const (
	ReasonExpired          = "expired"
	ReasonAlreadyCompleted = "already-completed"
)

var fileExtRe = regexp.MustCompile(`^[a-z0-9]{1,8}$`)

type CreateLinkRequest struct {
	ClientID    string  `json:"client_id" validate:"required"`
	CompanyID   string  `json:"company_id" validate:"required"`
	ProjectID   *string `json:"project_id"`
	ClientName  string  `json:"client_name" validate:"required"`
	ClientEmail *string `json:"client_email" validate:"omitempty,email"`
	ClientPhone *string `json:"client_phone" validate:"omitempty,e164"`
	Notes       *string `json:"notes"`
}

type CreateLinkResult struct {
	Token         string    `json:"token"`
	InspectionURL string    `json:"inspection_url"`
	ExpiresAt     time.Time `json:"expires_at"`
	SMSMessageID  *string   `json:"sms_message_id,omitempty"`
}

// InspectionSummary is the safe metadata subset handed to the anonymous
// holder of a valid link: just what the intake form needs to render.
type InspectionSummary struct {
	ClientName  string    `json:"client_name"`
	ClientEmail *string   `json:"client_email"`
	Notes       *string   `json:"notes"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TokenStatus is the validation gate's verdict on a token.
type TokenStatus struct {
	Valid            bool               `json:"valid"`
	Reason           string             `json:"reason,omitempty"`
	AlreadyCompleted bool               `json:"already_completed,omitempty"`
	Inspection       *InspectionSummary `json:"inspection,omitempty"`
}

type UploadTarget struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}

type CompleteUploadRequest struct {
	Token         string   `json:"token" validate:"required"`
	VideoKey      string   `json:"video_key" validate:"required"`
	VideoDuration *float64 `json:"video_duration"`
	VideoSize     *int64   `json:"video_size"`
}

// InspectionRepo is the durable store behind the workflow.
type InspectionRepo interface {
	Put(ctx context.Context, i *domain.InspectionVideo) error
	GetByToken(ctx context.Context, token string) (*domain.InspectionVideo, error)
	CompleteIfPending(ctx context.Context, inspectionID string, updates map[string]interface{}) (bool, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.InspectionVideo, error)
}

// URLSigner mints presigned object-store URLs.
type URLSigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// SMSSender delivers the inspection link to the client's phone.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) (string, error)
}

type Service interface {
	CreateLink(ctx context.Context, req CreateLinkRequest) (*CreateLinkResult, error)
	ValidateToken(ctx context.Context, tok string) (*TokenStatus, error)
	MintUploadURL(ctx context.Context, tok, fileExtension string) (*UploadTarget, *TokenStatus, error)
	CompleteUpload(ctx context.Context, req CompleteUploadRequest) (*domain.InspectionVideo, error)
	MintViewURL(ctx context.Context, videoKey string) (string, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.InspectionVideo, error)
}

type ServiceDeps struct {
	Repo          InspectionRepo
	Signer        URLSigner
	SMSSender     SMSSender
	PublicBaseURL string
}

type service struct {
	repo      InspectionRepo
	signer    URLSigner
	smsSender SMSSender
	baseURL   string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:      deps.Repo,
		signer:    deps.Signer,
		smsSender: deps.SMSSender,
		baseURL:   deps.PublicBaseURL,
	}
}

// CreateLink persists a pending inspection record under a fresh capability
// token and returns the public link. When the request carries a client
// phone, the link is also texted out.
func (s *service) CreateLink(ctx context.Context, req CreateLinkRequest) (*CreateLinkResult, error) {
	now := time.Now().UTC()
	record := &domain.InspectionVideo{
		InspectionID: id.New(),
		Token:        token.NewInspectionToken(),
		ClientID:     req.ClientID,
		CompanyID:    req.CompanyID,
		ProjectID:    req.ProjectID,
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		Notes:        req.Notes,
		Status:       domain.InspectionStatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(domain.InspectionLinkTTL),
	}

	if err := s.repo.Put(ctx, record); err != nil {
		slog.Error("persist inspection record failed", "inspection_id", record.InspectionID, "err", err)
		return nil, fmt.Errorf("create inspection link: %w", domain.ErrDependency)
	}

	result := &CreateLinkResult{
		Token:         record.Token,
		InspectionURL: fmt.Sprintf("%s/inspection/%s", s.baseURL, record.Token),
		ExpiresAt:     record.ExpiresAt,
	}

	if req.ClientPhone != nil {
		body := fmt.Sprintf(
			"Hi %s, please use this link to record a quick video walkthrough of your project: %s (valid for 14 days)",
			req.ClientName, result.InspectionURL)
		msgID, err := s.smsSender.SendSMS(ctx, *req.ClientPhone, body)
		if err != nil {
			slog.Error("inspection link SMS delivery failed", "inspection_id", record.InspectionID, "err", err)
			return nil, fmt.Errorf("send inspection link: %w", domain.ErrDependency)
		}
		result.SMSMessageID = &msgID
	}

	return result, nil
}

// ValidateToken applies the gate predicates and returns a verdict. Expiry
// and completion are reported as invalid verdicts, not errors; only an
// unknown token is an error. Reads never mutate the record, so repeated
// checks on an expired token stay idempotent.
func (s *service) ValidateToken(ctx context.Context, tok string) (*TokenStatus, error) {
	_, status, err := s.gate(ctx, tok)
	return status, err
}

// MintUploadURL re-runs the exact gate ValidateToken applies — state may
// have changed between page render and upload start — then presigns a PUT
// bound to one object key and content type.
func (s *service) MintUploadURL(ctx context.Context, tok, fileExtension string) (*UploadTarget, *TokenStatus, error) {
	record, status, err := s.gate(ctx, tok)
	if err != nil {
		return nil, nil, err
	}
	if !status.Valid {
		return nil, status, nil
	}

	if fileExtension == "" {
		fileExtension = "webm"
	}
	if !fileExtRe.MatchString(fileExtension) {
		return nil, nil, fmt.Errorf("invalid file extension: %w", domain.ErrBadRequest)
	}

	key := fmt.Sprintf("inspections/%s/video-%d.%s", record.InspectionID, time.Now().UnixMilli(), fileExtension)
	uploadURL, err := s.signer.PresignPut(ctx, key, "video/"+fileExtension, uploadURLTTL)
	if err != nil {
		slog.Error("presign upload URL failed", "inspection_id", record.InspectionID, "err", err)
		return nil, nil, fmt.Errorf("mint upload url: %w", domain.ErrDependency)
	}

	return &UploadTarget{UploadURL: uploadURL, Key: key}, status, nil
}

// CompleteUpload transitions pending -> completed, storing the object key
// and media metadata. The transition is a conditional update; when another
// call already completed the record, this one is an idempotent no-op that
// returns the existing completed record, so client retries never fail.
func (s *service) CompleteUpload(ctx context.Context, req CompleteUploadRequest) (*domain.InspectionVideo, error) {
	record, err := s.repo.GetByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	if record.Status == domain.InspectionStatusCompleted {
		slog.Info("duplicate completion ignored", "inspection_id", record.InspectionID)
		return record, nil
	}

	completedAt := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       domain.InspectionStatusCompleted,
		"video_key":    req.VideoKey,
		"completed_at": completedAt.Format(time.RFC3339),
	}
	if req.VideoDuration != nil {
		updates["video_duration"] = *req.VideoDuration
	}
	if req.VideoSize != nil {
		updates["video_size"] = *req.VideoSize
	}

	transitioned, err := s.repo.CompleteIfPending(ctx, record.InspectionID, updates)
	if err != nil {
		slog.Error("completion update failed", "inspection_id", record.InspectionID, "err", err)
		return nil, fmt.Errorf("complete upload: %w", domain.ErrDependency)
	}
	if !transitioned {
		// Lost the race to a concurrent completion; return what won.
		slog.Info("duplicate completion ignored", "inspection_id", record.InspectionID)
		return s.repo.GetByToken(ctx, req.Token)
	}

	record.Status = domain.InspectionStatusCompleted
	record.VideoKey = &req.VideoKey
	record.VideoDuration = req.VideoDuration
	record.VideoSize = req.VideoSize
	record.CompletedAt = &completedAt
	return record, nil
}

// MintViewURL presigns a read for an already-uploaded object. Authorization
// of the caller happens upstream; token status is deliberately not checked
// here since completed inspections are exactly the ones staff review.
func (s *service) MintViewURL(ctx context.Context, videoKey string) (string, error) {
	url, err := s.signer.PresignGet(ctx, videoKey, viewURLTTL)
	if err != nil {
		slog.Error("presign view URL failed", "video_key", videoKey, "err", err)
		return "", fmt.Errorf("mint view url: %w", domain.ErrDependency)
	}
	return url, nil
}

func (s *service) ListByCompany(ctx context.Context, companyID string) ([]domain.InspectionVideo, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// gate is the single token predicate: not found is an error, expired and
// already-completed are invalid verdicts, anything else is valid.
func (s *service) gate(ctx context.Context, tok string) (*domain.InspectionVideo, *TokenStatus, error) {
	record, err := s.repo.GetByToken(ctx, tok)
	if err != nil {
		return nil, nil, err
	}

	if record.Expired(time.Now()) {
		return record, &TokenStatus{Valid: false, Reason: ReasonExpired}, nil
	}
	if record.Status == domain.InspectionStatusCompleted {
		return record, &TokenStatus{Valid: false, Reason: ReasonAlreadyCompleted, AlreadyCompleted: true}, nil
	}

	return record, &TokenStatus{
		Valid: true,
		Inspection: &InspectionSummary{
			ClientName:  record.ClientName,
			ClientEmail: record.ClientEmail,
			Notes:       record.Notes,
			ExpiresAt:   record.ExpiresAt,
		},
	}, nil
}
