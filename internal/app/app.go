package app

import (
	"context"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/soleindustrial/plm/internal/adapters/cache/rediscache"
	"github.com/soleindustrial/plm/internal/adapters/httpserver"
	"github.com/soleindustrial/plm/internal/adapters/repo/postgres"
	"github.com/soleindustrial/plm/internal/adapters/storage/localfs"
	"github.com/soleindustrial/plm/internal/adapters/storage/miniostore"
	"github.com/soleindustrial/plm/internal/domain"
	"github.com/soleindustrial/plm/internal/usecase"
)

type App struct {
	DB          *gorm.DB
	WS          *usecase.Workspace
	Stores      usecase.Stores
	Samples     *usecase.SampleUC
	Providers   *usecase.ProviderUC
	Users       *usecase.UserUC
	Auth        *usecase.AuthUC
	Storage     domain.FileStorage
	OAuthConfig *oauth2.Config

	secret []byte
}

func NewApp(db *gorm.DB, rdb *redis.Client) (*App, error) {
	sampleRepo := postgres.NewSampleRepo(db)
	providerRepo := postgres.NewProviderRepo(db)
	inspectionRepo := postgres.NewInspectionRepo(db)
	sheetRepo := postgres.NewSheetRepo(db)
	userRepo := postgres.NewUserRepo(db)

	var cache domain.SnapshotCache
	if rdb != nil {
		cache = rediscache.New(rdb)
	}

	ws := usecase.NewWorkspace()
	stores := usecase.Stores{
		Samples:     sampleRepo,
		Providers:   providerRepo,
		Inspections: inspectionRepo,
		Sheets:      sheetRepo,
		Users:       userRepo,
		Cache:       cache,
	}

	var storage domain.FileStorage
	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		st, err := miniostore.New(miniostore.Config{
			Endpoint:  endpoint,
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    envOr("MINIO_BUCKET", "industrial-plm"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		})
		if err != nil {
			log.Warn().Err(err).Msg("MinIO no disponible, usando almacenamiento local")
		} else {
			storage = st
		}
	}
	if storage == nil {
		dir := envOr("STORAGE_DIR", "uploads")
		_ = os.MkdirAll(dir, 0755)
		storage = localfs.New(dir)
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = os.Getenv("SECRET_KEY")
	}
	if secret == "" {
		secret = "dev-session-secret"
	}

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  envOr("BASE_URL", "http://localhost:8080") + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &App{
		DB:          db,
		WS:          ws,
		Stores:      stores,
		Samples:     &usecase.SampleUC{WS: ws, Samples: sampleRepo, Inspections: inspectionRepo, Sheets: sheetRepo},
		Providers:   &usecase.ProviderUC{WS: ws, Providers: providerRepo},
		Users:       &usecase.UserUC{WS: ws, Users: userRepo},
		Auth:        &usecase.AuthUC{WS: ws, Users: userRepo},
		Storage:     storage,
		OAuthConfig: oauthCfg,
		secret:      []byte(secret),
	}, nil
}

func (a *App) HTTPHandler() http.Handler {
	ping := func(ctx context.Context) error {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return httpserver.New(a.WS, a.Samples, a.Providers, a.Users, a.Auth, a.Storage, a.secret, a.OAuthConfig, ping)
}

// Refresh carga el conjunto de trabajo inicial desde el store, con fallback
// al snapshot cacheado por colección. Devuelve true si quedó degradado.
func (a *App) Refresh(ctx context.Context) bool {
	return a.WS.Refresh(ctx, a.Stores)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.User{}, &domain.Provider{}, &domain.Sample{}, &domain.Inspection{}, &domain.TechnicalSheet{},
	); err != nil {
		return err
	}
	if err := seedUsers(a.DB); err != nil {
		return err
	}
	return seedProviders(a.DB)
}

func seedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(envOr("SEED_USER_PASSWORD", "sole2024")), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	users := []domain.User{
		{ID: "u1", Name: "Administrador", Email: "admin@sole.com.pe", Role: domain.RoleAdmin},
		{ID: "u2", Name: "Juan Sanchez", Email: "juan@sole.com.pe", Role: domain.RoleSamples},
		{ID: "u3", Name: "Ana Martinez", Email: "ana@sole.com.pe", Role: domain.RoleInspections},
		{ID: "u4", Name: "Carlos Ruiz", Email: "carlos@sole.com.pe", Role: domain.RoleSheets},
	}
	for i := range users {
		users[i].PasswordHash = string(hash)
		if err := db.Create(&users[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedProviders(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Provider{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	providers := []domain.Provider{
		{ID: "p1", Name: "TermoHogar Solutions S.A.", ShortName: "TermoHogar", Code: "PRV-ESP-001", Country: "España"},
		{ID: "p2", Name: "Global Tech Manufacturing", ShortName: "GlobalTech", Code: "PRV-GER-002", Country: "Alemania"},
	}
	for i := range providers {
		if err := db.Create(&providers[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
