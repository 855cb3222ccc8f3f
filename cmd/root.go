// ABOUTME: Root command for the postdeck CLI
// ABOUTME: Handles global flags, configuration, and shared client wiring

package cmd

import (
	"os"
	"time"

	"github.com/mlowther/postdeck/internal/api"
	"github.com/mlowther/postdeck/internal/config"
	"github.com/mlowther/postdeck/internal/logger"
	"github.com/mlowther/postdeck/internal/session"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool

	// configDir is where the session token lives; tests point it elsewhere
	cfg       *config.Config
	configDir = session.DefaultConfigDir()
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "postdeck",
	Short: "Terminal client for the posts backend",
	Long: `postdeck is a terminal client for managing posts on the backend API.

Sign in once and the session token is kept in your config directory until
it expires or you sign out.

Environment Variables:
  POSTDECK_API_URL      Backend API URL (default: http://127.0.0.1:8000/api)
  POSTDECK_TIMEOUT      Request timeout in seconds (default: 30)
  POSTDECK_PROFILE_TTL  Seconds to trust a resolved profile (default: 60)`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Init(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides POSTDECK_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or config default
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("POSTDECK_API_URL"); envURL != "" {
		return envURL
	}
	if cfg != nil {
		return cfg.APIURL
	}
	return "http://127.0.0.1:8000/api"
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newManager builds the session manager every command shares. The client
// comes up already holding any persisted token.
func newManager() *session.Manager {
	timeout := 30 * time.Second
	profileTTL := time.Minute
	if cfg != nil {
		timeout = time.Duration(cfg.RequestTimeout) * time.Second
		profileTTL = time.Duration(cfg.ProfileTTL) * time.Second
	}

	client := api.NewWithTimeout(GetAPIURL(), timeout)
	return session.NewManager(client, session.NewStore(configDir), profileTTL)
}
