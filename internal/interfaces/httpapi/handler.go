package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fitclash/fitclash/internal/domain/jobrun"
	"github.com/fitclash/fitclash/internal/platform/logging"
	"github.com/fitclash/fitclash/internal/usecase"
)

type Handler struct {
	competitionService  *usecase.CompetitionService
	entryService        *usecase.EntryService
	standingsService    *usecase.StandingsService
	notificationService *usecase.NotificationService
	tokenService        *usecase.TokenService
	chatService         *usecase.ChatService
	lifecycleService    *usecase.LifecycleService
	jobRunRepo          jobrun.Repository
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	competitionService *usecase.CompetitionService,
	entryService *usecase.EntryService,
	standingsService *usecase.StandingsService,
	notificationService *usecase.NotificationService,
	tokenService *usecase.TokenService,
	chatService *usecase.ChatService,
	lifecycleService *usecase.LifecycleService,
	jobRunRepo jobrun.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		competitionService:  competitionService,
		entryService:        entryService,
		standingsService:    standingsService,
		notificationService: notificationService,
		tokenService:        tokenService,
		chatService:         chatService,
		lifecycleService:    lifecycleService,
		jobRunRepo:          jobRunRepo,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
