package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/app"
	"github.com/zhubert/parley/internal/config"
	"github.com/zhubert/parley/internal/logger"
)

var (
	apiURLFlag            string
	debugMode             bool
	logFile               string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Terminal client for personality-driven chats",
	Long: `Parley is a terminal chat client. Each chat is bound to a personality
(friend, girlfriend, mentor or bully) and keeps its history on the backend.`,
	PersistentPreRunE: initLogging,
	RunE:              runTUI,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend URL (overrides "+config.EnvAPIURL+" and the config file)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default "+logger.DefaultLogPath+")")
}

// initLogging applies the logging flags. serve picks its own log file, so
// it is left alone here.
func initLogging(cmd *cobra.Command, args []string) error {
	logger.SetDebug(debugMode)
	if cmd == serveCmd {
		return nil
	}
	path := logFile
	if path == "" {
		path = logger.DefaultLogPath
	}
	return logger.Init(path)
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("parley %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("parley %s\n", version)
}

// environment is what every client-side command needs
type environment struct {
	cfg    *config.Config
	creds  *config.Credentials
	client *api.Client
}

// loadEnvironment reads .env, the config and the stored credentials, and
// builds a client for the resolved backend URL.
func loadEnvironment() (*environment, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, fmt.Errorf("error loading credentials: %w", err)
	}
	url := config.ResolveAPIURL(apiURLFlag, cfg)
	logger.WithComponent("cmd").Debug("resolved backend", "url", url)
	return &environment{cfg: cfg, creds: creds, client: api.NewClient(url, creds)}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	defer logger.Close()

	m := app.New(env.cfg, env.creds, env.client, version)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
