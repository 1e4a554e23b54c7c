package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/langx-app/server/internal/helpers"
	"github.com/langx-app/server/internal/models"
	"github.com/langx-app/server/internal/notify"
	"github.com/langx-app/server/internal/services"
	"github.com/langx-app/server/internal/session"
	"github.com/langx-app/server/internal/setup"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client

	MongoRepo *models.MongodbRepo

	Sessions       *session.Manager
	AuthService    *services.AuthService
	ProfileService *services.ProfileService
	SetupManager   *setup.Manager
	Registrar      *notify.Registrar
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
) *Container {
	supa := models.SupabaseNewRepo(supabaseClient)
	mongoRepo := models.MongodbNewRepo(mongoDBClient)
	images := helpers.NewCloudinaryImages(cld)

	sessions := session.NewManager(logger)
	authService := services.NewAuthService(supa, mongoRepo, sessions, logger)
	profileService := services.NewProfileService(mongoRepo)
	setupManager := setup.NewManager(sessions, mongoRepo, images, logger)
	registrar := notify.NewRegistrar(mongoRepo, logger)

	return &Container{
		Logger:         logger,
		Cloudinary:     cld,
		SupabaseClient: supabaseClient,
		MongoDBClient:  mongoDBClient,
		MongoRepo:      mongoRepo,
		Sessions:       sessions,
		AuthService:    authService,
		ProfileService: profileService,
		SetupManager:   setupManager,
		Registrar:      registrar,
	}
}
