// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults() {
	viper.SetDefault("backend", string(types.BackendTabula))
	viper.SetDefault("container_image", types.DefaultContainerImage)
	viper.SetDefault("jobs", 1)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.max_size_mb", 10)
	viper.SetDefault("log.max_backups", 3)
}

// loadConfig reads the effective settings from flags, environment and the
// config file, in that order of precedence.
func loadConfig() (types.Config, error) {
	cfg := types.Config{
		Conversion: types.ConversionConfig{
			ExtractionConfig: types.ExtractionConfig{
				Backend:        types.ExtractionBackend(viper.GetString("backend")),
				ContainerImage: viper.GetString("container_image"),
			},
			ProfilePath: viper.GetString("profile"),
			SaveRaw:     viper.GetBool("save_raw"),
			HTML:        viper.GetBool("html"),
			Frontmatter: viper.GetBool("frontmatter"),
			Jobs:        viper.GetInt("jobs"),
			CatalogPath: viper.GetString("catalog"),
		},
		Log: types.LogConfig{
			Level:      viper.GetString("log.level"),
			Format:     viper.GetString("log.format"),
			File:       viper.GetString("log.file"),
			MaxSizeMB:  viper.GetInt("log.max_size_mb"),
			MaxBackups: viper.GetInt("log.max_backups"),
		},
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, configError(err)
	}
	return cfg, nil
}

// configError turns validator output into one line per offending setting.
func configError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s %q must be one of: %s", fe.Namespace(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s %v fails %s=%s", fe.Namespace(), fe.Value(), fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
