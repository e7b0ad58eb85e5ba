package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/seriesdb/seriesdb/pkg/driver"
)

var (
	flagDriver   string
	flagHost     string
	flagPort     int
	flagUser     string
	flagDatabase string
	flagOptions  map[string]string
	flagAskPass  bool
)

func setupConnectionFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDriver, "driver", "", "Backend driver (sqlite, mysql, postgres, or an alias)")
	pf.StringVar(&flagHost, "host", "", "Server host")
	pf.IntVar(&flagPort, "port", 0, "Server port (0 selects the backend default)")
	pf.StringVar(&flagUser, "user", "", "User name")
	pf.StringVarP(&flagDatabase, "database", "d", "", "Database name or file path")
	pf.StringToStringVar(&flagOptions, "option", nil, "Adapter option as key=value (repeatable)")
	pf.BoolVar(&flagAskPass, "password", false, "Prompt for a password")
}

// loadConfig assembles the connection record from the selected profile in
// the config file, then lets command-line flags override it field by field.
func loadConfig() (driver.Config, error) {
	var cfg driver.Config

	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine as long as the flags carry
		// everything needed.
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	} else {
		section := v.Sub("profiles." + profile)
		if section != nil {
			cfg.Driver = section.GetString("driver")
			cfg.Host = section.GetString("host")
			cfg.Port = section.GetInt("port")
			cfg.User = section.GetString("user")
			cfg.Password = section.GetString("password")
			cfg.DatabaseName = section.GetString("database_name")
			cfg.Options = section.GetStringMapString("options")
		}
	}

	if flagDriver != "" {
		cfg.Driver = flagDriver
	}
	if flagHost != "" {
		cfg.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}
	if flagUser != "" {
		cfg.User = flagUser
	}
	if flagDatabase != "" {
		cfg.DatabaseName = flagDatabase
	}
	for k, val := range flagOptions {
		if cfg.Options == nil {
			cfg.Options = make(map[string]string)
		}
		cfg.Options[k] = val
	}

	if cfg.Driver == "" {
		return cfg, fmt.Errorf("no driver selected: set --driver or a %q profile in %s", profile, configFile)
	}
	if cfg.DatabaseName == "" {
		return cfg, fmt.Errorf("no database selected: set --database or a %q profile in %s", profile, configFile)
	}

	if flagAskPass {
		password, err := readPassword()
		if err != nil {
			return cfg, err
		}
		cfg.Password = password
	}
	return cfg, nil
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(passwordBytes), nil
}
