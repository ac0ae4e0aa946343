package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"movie-tickets-cli/config"
)

var runPrompt = func(p promptui.Prompt) (string, error) {
	return p.Run()
}

func newConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactively set the catalog endpoint and animation speed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			urlPrompt := promptui.Prompt{
				Label:     "Catalog URL (empty for built-in movies)",
				Default:   cfg.CatalogURL,
				AllowEdit: true,
				Validate:  validateCatalogURL,
			}
			catalogURL, err := runPrompt(urlPrompt)
			if err != nil {
				return err
			}

			msPrompt := promptui.Prompt{
				Label:    "Animation duration (ms)",
				Default:  strconv.Itoa(cfg.AnimationMillis),
				Validate: validateMillis,
			}
			rawMS, err := runPrompt(msPrompt)
			if err != nil {
				return err
			}
			ms, _ := strconv.Atoi(strings.TrimSpace(rawMS))

			cfg.CatalogURL = strings.TrimSpace(catalogURL)
			cfg.AnimationMillis = ms
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			path, _ := config.ConfigPath()
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
}

func validateCatalogURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	u, err := url.Parse(input)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("catalog url must be http or https")
	}
	if u.Host == "" {
		return errors.New("catalog url needs a host")
	}
	return nil
}

func validateMillis(input string) error {
	ms, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return errors.New("invalid number")
	}
	return config.Config{AnimationMillis: ms}.Validate()
}
