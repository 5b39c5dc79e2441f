package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnawhale/classroom-poller/internal/auth"
	"github.com/rnawhale/classroom-poller/internal/config"
	"github.com/rnawhale/classroom-poller/internal/logger"
)

var (
	cfgFile   string
	verbose   bool
	outDir    string
	tokenFile string
	cfg       *config.Config

	// Version information
	version    string
	commitHash string
	buildTime  string
)

var rootCmd = &cobra.Command{
	Use:   "classroom-poller",
	Short: "Google Classroom poller that publishes daily JSON snapshots",
	Long: `A CLI tool that polls Google Classroom for coursework and announcements
across your active courses and publishes them as per-day JSON snapshots
plus a manifest, ready to serve as static files.

classroom-poller authorizes against Google with OAuth 2.0 (a browser
loopback flow by default, or a device flow for headless machines), keeps
the credential in a local token file, and groups fetched items by course
under calendar-day buckets.

Run it from cron, a systemd timer, or the built-in watch scheduler to keep
the snapshots fresh.`,
}

func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, commit, buildTimeStr string) {
	version = v
	commitHash = commit
	buildTime = buildTimeStr

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commitHash, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/classroom-poller/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", "", "snapshot output directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "token file path (overrides GOOGLE_TOKEN_FILE)")
}

func initConfig() {
	// Initialize logger with verbose flag
	logger.Init(verbose)

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if outDir != "" {
		cfg.Output.Dir = outDir
	}
}

// newAuthorizer wires credentials, token store, and the configured flow.
// The --token-file flag takes precedence over GOOGLE_TOKEN_FILE.
func newAuthorizer(method string) (*auth.Authorizer, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}
	if tokenFile != "" {
		creds.TokenFile = tokenFile
	}
	if method == "" {
		method = creds.AuthMethod
	}

	oauthConfig := auth.OAuthConfig(creds.ClientID, creds.ClientSecret)
	store := auth.NewStore(creds.TokenFile)

	var flow auth.Flow
	switch method {
	case config.MethodDevice:
		flow = auth.NewDeviceFlow(oauthConfig)
	case config.MethodLocal:
		flow = auth.NewLocalFlow(oauthConfig)
	default:
		return nil, config.NewConfigError("method", method, "must be \"local\" or \"device\"")
	}

	logger.Debug("authorizer ready", "flow", flow.Name(), "credentials", creds.Sanitize())
	return auth.NewAuthorizer(oauthConfig, store, flow), nil
}
