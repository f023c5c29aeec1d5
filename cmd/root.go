package cmd

import (
	"os"
	"strings"
	"time"

	globalConfig "github.com/hackatransparency/alfred-vision/config"
	domainGallery "github.com/hackatransparency/alfred-vision/domains/gallery"
	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	domainProject "github.com/hackatransparency/alfred-vision/domains/project"
	"github.com/hackatransparency/alfred-vision/infrastructure/insightstore"
	"github.com/hackatransparency/alfred-vision/infrastructure/valkey"
	"github.com/hackatransparency/alfred-vision/infrastructure/vision"
	"github.com/hackatransparency/alfred-vision/pkg/imagefetch"
	"github.com/hackatransparency/alfred-vision/pkg/utils"
	"github.com/hackatransparency/alfred-vision/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Usecase
	galleryUsecase domainGallery.IGalleryUsecase
	cacheUsecase   domainInsight.ICacheUsecase
	projectUsecase domainProject.IProjectUsecase

	// Infrastructure handles kept for shutdown
	valkeyClient *valkey.Client
	sqliteStore  *insightstore.SQLiteStore
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Short: "Alfred vision backend",
	Long: `Backend service for the HackaTransparency gallery: analyzes event
photos with a vision model and serves cached insights over HTTP.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

// initEnvConfig loads configuration from environment variables
func initEnvConfig() {
	if envPort := viper.GetString("app_port"); envPort != "" {
		globalConfig.AppPort = envPort
	}
	if envDebug := viper.GetBool("app_debug"); envDebug {
		globalConfig.AppDebug = envDebug
	}
	envBasicAuth := viper.GetString("app_basic_auth")
	if envBasicAuth == "" {
		envBasicAuth = os.Getenv("APP_BASIC_AUTH")
	}
	if envBasicAuth != "" {
		credential := strings.Split(envBasicAuth, ",")
		globalConfig.AppBasicAuthCredential = credential
	}
	if envBasePath := viper.GetString("app_base_path"); envBasePath != "" {
		globalConfig.AppBasePath = envBasePath
	}
	if envTrustedProxies := viper.GetString("app_trusted_proxies"); envTrustedProxies != "" {
		proxies := strings.Split(envTrustedProxies, ",")
		globalConfig.AppTrustedProxies = proxies
	}
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.AppPort,
		"port", "p",
		globalConfig.AppPort,
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&globalConfig.AppDebug,
		"debug", "d",
		globalConfig.AppDebug,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&globalConfig.AppBasicAuthCredential,
		"basic-auth", "b",
		globalConfig.AppBasicAuthCredential,
		"basic auth credential | -b=yourUsername:yourPassword",
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.AppBasePath,
		"base-path", "",
		globalConfig.AppBasePath,
		`base path for subpath deployment --base-path <string> | example: --base-path="/alfred"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.VisionProvider,
		"provider", "",
		globalConfig.VisionProvider,
		`vision provider --provider <gemini|openai> | example: --provider=openai`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.VisionModel,
		"model", "m",
		globalConfig.VisionModel,
		`vision model identifier --model <string> | example: --model="gemini-2.5-flash"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.CacheStoreURI,
		"cache-store", "",
		globalConfig.CacheStoreURI,
		`path of the sqlite insight store --cache-store <string> | example: --cache-store="storages/insights.db"`,
	)
}

func initApp() {
	if globalConfig.AppDebug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := os.MkdirAll(globalConfig.PathStorages, 0755); err != nil {
		logrus.Errorln(err)
	}

	// Insight store selection: Valkey when enabled (shared between
	// replicas), sqlite otherwise.
	var store domainInsight.KVStore
	if globalConfig.ValkeyEnabled {
		vk, err := valkey.NewClient(valkey.Config{
			Address:   globalConfig.ValkeyAddress,
			Password:  globalConfig.ValkeyPassword,
			DB:        globalConfig.ValkeyDB,
			KeyPrefix: globalConfig.ValkeyKeyPrefix,
		})
		if err != nil {
			logrus.Fatalf("failed to connect to valkey: %v", err)
		}
		valkeyClient = vk
		store = insightstore.NewValkeyStore(vk)
		logrus.Info("[APP] Using valkey insight store")
	} else {
		sq, err := insightstore.NewSQLiteStore(globalConfig.CacheStoreURI, globalConfig.CacheMaxSizeBytes)
		if err != nil {
			logrus.Fatalf("failed to open insight store: %v", err)
		}
		sqliteStore = sq
		store = sq
		logrus.Infof("[APP] Using sqlite insight store at %s", globalConfig.CacheStoreURI)
	}

	insightCache := usecase.NewInsightCache(store)
	cacheUsecase = insightCache

	timeout := time.Duration(globalConfig.VisionTimeoutSeconds) * time.Second
	var provider domainInsight.VisionProvider
	switch globalConfig.VisionProvider {
	case "openai":
		provider = vision.NewOpenAIProvider(
			os.Getenv("OPENAI_API_KEY"),
			globalConfig.VisionModel,
			globalConfig.VisionMaxTokens,
			globalConfig.VisionTemperature,
			timeout,
		)
	default:
		provider = vision.NewGeminiProvider(
			os.Getenv("GEMINI_API_KEY"),
			globalConfig.VisionModel,
			globalConfig.VisionMaxTokens,
			globalConfig.VisionTemperature,
			timeout,
		)
	}
	logrus.Infof("[APP] Vision provider: %s (%s)", provider.Name(), globalConfig.VisionModel)

	fetcher := imagefetch.NewFetcher(globalConfig.AIMaxImageBytes)
	prompter := usecase.NewPrompter()

	galleryUsecase = usecase.NewGalleryService(
		globalConfig.GalleryManifest,
		globalConfig.GalleryBaseURL,
		fetcher,
		prompter,
		provider,
		insightCache,
		time.Duration(globalConfig.CacheHitDelayMs)*time.Millisecond,
	)

	projectUsecase = usecase.NewProjectService(globalConfig.DatastoreBaseURL)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of shared resources.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	if sqliteStore != nil {
		if err := sqliteStore.Close(); err != nil {
			logrus.WithError(err).Error("[APP] Failed to close insight store")
		}
	}
	if valkeyClient != nil {
		valkeyClient.Close()
	}

	logrus.Info("[APP] Application stopped cleanly.")
}
