package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateAttachments(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must be set")
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid http(s) URL", c.API.BaseURL)
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("api.base_url scheme %q is not supported", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateAttachments() error {
	lists := map[string][]string{
		"attachments.image_extensions":    c.Attachments.ImageExtensions,
		"attachments.video_extensions":    c.Attachments.VideoExtensions,
		"attachments.audio_extensions":    c.Attachments.AudioExtensions,
		"attachments.document_extensions": c.Attachments.DocumentExtensions,
	}
	for key, list := range lists {
		for _, ext := range list {
			if strings.TrimSpace(ext) == "" {
				return fmt.Errorf("%s contains an empty extension", key)
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
