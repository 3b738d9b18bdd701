package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	walacor "github.com/walacor/walacor-go"
	"github.com/walacor/walacor-go/config"
	"github.com/walacor/walacor-go/dto"
)

var (
	verbose      = false
	extraHeaders = dto.ExtraHeaders{}
)

var (
	rootCmd = &cobra.Command{
		Use:           "walacor",
		Short:         "Command line client for the Walacor platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env in the working directory is read by config.LoadEnv
			if file := viper.GetString("env_file"); file != "" {
				if err := godotenv.Load(file); err != nil {
					return fmt.Errorf("load %s: %w", file, err)
				}
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	viper.SetEnvPrefix("WALACOR")
	viper.AutomaticEnv()
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every request")
	flags.StringP("config-file", "f", "", "YAML config file")
	flags.String("env-file", "", "extra dotenv file loaded before reading WALACOR_* variables")
	flags.StringP("server", "s", "", "platform URL (WALACOR_SERVER)")
	flags.StringP("username", "u", "", "user name (WALACOR_USERNAME)")
	flags.StringP("output", "o", "json", "output format: json or yaml")
	flags.VarP(extraHeaders, "header", "H", "extra request header key=value, repeatable")
	_ = viper.BindPFlag("config_file", flags.Lookup("config-file"))
	_ = viper.BindPFlag("env_file", flags.Lookup("env-file"))
	_ = viper.BindPFlag("server", flags.Lookup("server"))
	_ = viper.BindPFlag("username", flags.Lookup("username"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
}

// loadConfig builds the SDK config from the config file or the environment,
// with flags on top. The password is prompted for when missing.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := viper.GetString("config_file"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		return nil, err
	}
	if server := viper.GetString("server"); server != "" {
		cfg.WithBaseURL(server)
	}
	if username := viper.GetString("username"); username != "" {
		cfg.Username = username
	}
	if len(extraHeaders) > 0 {
		cfg.WithExtraHeaders(extraHeaders)
	}
	if verbose {
		cfg.WithLogLevel("debug")
	}
	if cfg.Password == "" {
		pw, err := GetPassword(cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		cfg.Password = string(pw)
	}
	return cfg, nil
}

func newService(cmd *cobra.Command, opts ...walacor.Option) (*walacor.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if verbose {
		opts = append(opts, walacor.WithRequestLogging())
	}
	return walacor.New(cfg, opts...)
}

var errNoResult = errors.New("the platform returned no result, see the log for details")
