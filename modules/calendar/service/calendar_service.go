package service

import (
	"context"
	stderrors "errors"
	"net/url"
	"path"
	"strings"

	"taskcal/core/config"
	"taskcal/core/constants"
	"taskcal/core/errors"
	"taskcal/core/logger"
	"taskcal/core/params"
	"taskcal/modules/calendar/dto"
	"taskcal/modules/calendar/entity"
	"taskcal/modules/calendar/mapper"
	"taskcal/modules/calendar/provider"
	"taskcal/modules/calendar/repository"

	"github.com/google/uuid"
)

// Callback redirect messages.
const (
	msgMissingCodeOrState = "missing code or state"
	msgInvalidState       = "invalid state"
	msgExchangeFailed     = "token exchange failed"
	msgMissingTokens      = "missing access or refresh token"
	msgEmailFailed        = "failed to fetch account email"
	msgSaveFailed         = "failed to save calendar credential"
)

type CalendarService struct {
	repo         repository.CalendarRepository
	provider     provider.Provider
	state        *StateSigner
	sync         *SyncService
	frontendURL  string
	redirectPath string
}

func NewCalendarService(repo repository.CalendarRepository, prov provider.Provider, state *StateSigner, sync *SyncService, app config.AppConfig) *CalendarService {
	return &CalendarService{
		repo:         repo,
		provider:     prov,
		state:        state,
		sync:         sync,
		frontendURL:  app.FrontendURL,
		redirectPath: app.CalendarRedirectPath,
	}
}

func (s *CalendarService) ConnectURL(ctx context.Context, userID uuid.UUID) (*dto.ConnectResponse, *errors.AppError) {
	if s.provider == nil {
		return nil, errors.NewAppError(errors.ErrNotConfigured, ErrNotConfigured.Error(), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	state, err := s.state.Issue(ctx, userID)
	if err != nil {
		logger.Error("CalendarService:ConnectURL:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to start calendar connection", err)
	}
	return &dto.ConnectResponse{URL: s.provider.AuthCodeURL(state)}, nil
}

// HandleCallback completes the OAuth flow and returns where the browser should
// be sent. It never fails; problems are reported through the redirect.
func (s *CalendarService) HandleCallback(ctx context.Context, req *dto.CallbackRequest) string {
	if req.Error != "" {
		logger.Warn("CalendarService:Callback:ProviderError", "error", req.Error)
		return s.redirectURL(req.Error)
	}
	if req.Code == "" || req.State == "" {
		return s.redirectURL(msgMissingCodeOrState)
	}
	if s.provider == nil {
		return s.redirectURL(ErrNotConfigured.Error())
	}

	reqCtx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	userID, err := s.state.Verify(reqCtx, req.State)
	if err != nil {
		logger.Warn("CalendarService:Callback:InvalidState", "error", err)
		return s.redirectURL(msgInvalidState)
	}

	token, err := s.provider.Exchange(reqCtx, req.Code)
	if err != nil {
		logger.Error("CalendarService:Callback:ExchangeFailed", "user_id", userID, "error", err)
		return s.redirectURL(msgExchangeFailed)
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		logger.Error("CalendarService:Callback:MissingTokens", "user_id", userID)
		return s.redirectURL(msgMissingTokens)
	}

	email, err := s.provider.FetchEmail(reqCtx, token)
	if err != nil {
		logger.Error("CalendarService:Callback:FetchEmailFailed", "user_id", userID, "error", err)
		return s.redirectURL(msgEmailFailed)
	}

	cred := &entity.CalendarCredential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Email:        email,
		CalendarID:   entity.DefaultCalendarID,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		cred.TokenExpiry = &expiry
	}
	if _, err := s.repo.UpsertCredential(reqCtx, cred); err != nil {
		logger.Error("CalendarService:Callback:UpsertFailed", "user_id", userID, "error", err)
		return s.redirectURL(msgSaveFailed)
	}
	logger.Info("CalendarService:Callback:Connected", "user_id", userID, "email", email)

	syncCtx, syncCancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DefaultTimeout)
	defer syncCancel()
	if _, err := s.sync.SyncUser(syncCtx, userID, entity.TriggerCallback); err != nil {
		logger.Warn("CalendarService:Callback:InitialSyncFailed", "user_id", userID, "error", err)
	}

	return s.redirectURL("")
}

func (s *CalendarService) Status(ctx context.Context, userID uuid.UUID) (*dto.CalendarStatusResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	cred, err := s.repo.GetCredentialByUserID(ctx, userID)
	if err != nil {
		logger.Error("CalendarService:Status:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to load calendar status", err)
	}
	return mapper.ToStatusResponse(cred), nil
}

// Disconnect is idempotent: disconnecting without a credential still succeeds.
func (s *CalendarService) Disconnect(ctx context.Context, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	deleted, err := s.repo.DeleteCredentialAndResetEvents(ctx, userID)
	if err != nil {
		logger.Error("CalendarService:Disconnect:Error", "user_id", userID, "error", err)
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to disconnect calendar", err)
	}
	logger.Info("CalendarService:Disconnect:Done", "user_id", userID, "had_credential", deleted)
	return nil
}

func (s *CalendarService) UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateSettingsRequest) (*dto.CalendarStatusResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	cred, err := s.repo.GetCredentialByUserID(ctx, userID)
	if err != nil {
		logger.Error("CalendarService:UpdateSettings:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to load calendar credential", err)
	}
	if cred == nil {
		return nil, errors.NewAppError(errors.ErrNotConnected, ErrNotConnected.Error(), nil)
	}

	syncEnabled := cred.SyncEnabled
	if req.SyncEnabled != nil {
		syncEnabled = *req.SyncEnabled
	}
	calendarID := cred.CalendarID
	if id := strings.TrimSpace(req.CalendarID); id != "" {
		calendarID = id
	}

	update := s.repo.UpdateSettings
	if calendarID != cred.CalendarID {
		// Links point into the old calendar.
		update = s.repo.SwitchCalendar
	}
	updated, err := update(ctx, userID, syncEnabled, calendarID)
	if err != nil {
		logger.Error("CalendarService:UpdateSettings:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update calendar settings", err)
	}
	if updated == nil {
		return nil, errors.NewAppError(errors.ErrNotConnected, ErrNotConnected.Error(), nil)
	}
	return mapper.ToStatusResponse(updated), nil
}

func (s *CalendarService) SyncHistory(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*dto.PaginatedSyncRunResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	runs, total, err := s.repo.ListSyncRuns(ctx, userID, params)
	if err != nil {
		logger.Error("CalendarService:SyncHistory:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list sync history", err)
	}
	return mapper.ToSyncRunPaginationResponse(runs, total, params.PageNumber, params.PageSize), nil
}

// Sync runs a manual sync for the caller.
func (s *CalendarService) Sync(ctx context.Context, userID uuid.UUID) (*dto.SyncResultResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	result, err := s.sync.SyncUser(ctx, userID, entity.TriggerManual)
	if err != nil {
		code := errors.ErrInternalServer
		if stderrors.Is(err, ErrNotConnected) {
			code = errors.ErrNotConnected
		}
		return nil, errors.NewAppError(code, err.Error(), err)
	}
	return &dto.SyncResultResponse{
		Imported:  result.Imported,
		Exported:  result.Exported,
		Conflicts: result.Conflicts,
		Errors:    result.Errors,
	}, nil
}

func (s *CalendarService) redirectURL(errMsg string) string {
	q := url.Values{}
	if errMsg == "" {
		q.Set("calendar_connected", "true")
	} else {
		q.Set("calendar_error", errMsg)
	}

	u, err := url.Parse(s.frontendURL)
	if err != nil {
		return strings.TrimRight(s.frontendURL, "/") + "/" + strings.TrimLeft(s.redirectPath, "/") + "?" + q.Encode()
	}
	u.Path = path.Join("/", u.Path, s.redirectPath)
	u.RawQuery = q.Encode()
	return u.String()
}

