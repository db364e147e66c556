package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/channel-proxy/config"
)

var envKeys = []string{
	"YOUTUBE_API_KEY", "MY_SECRET_TOKEN", "API_KEY",
	"YOUTUBE_CHANNEL_ID", "CHANNEL_ID",
	"YOUTUBE_PAGE_SIZE", "SERVER_ADDRESS", "LOGGING_LEVEL",
}

var _ = Describe("Config", func() {
	var (
		tempDir string
		origDir string
	)

	BeforeEach(func() {
		var err error
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		Expect(os.Chdir(tempDir)).To(Succeed())

		for _, k := range envKeys {
			os.Unsetenv(k)
		}
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tempDir)
		for _, k := range envKeys {
			os.Unsetenv(k)
		}
	})

	Describe("Load", func() {
		Context("with valid config file", func() {
			BeforeEach(func() {
				configContent := `
server:
  address: ":9090"
  environment: "prod"

youtube:
  api_key: "file-key"
  channel_id: "UC123"
  page_size: 25
  timeout: "3s"

matcher:
  max_suggestions: 5
  cutoff: 0.4

logging:
  level: "debug"
`
				configPath := filepath.Join(tempDir, "config.yaml")
				err := os.WriteFile(configPath, []byte(configContent), 0644)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should load configuration successfully", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg).NotTo(BeNil())
			})

			It("should parse the youtube section", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.YouTube.APIKey).To(Equal("file-key"))
				Expect(cfg.YouTube.ChannelID).To(Equal("UC123"))
				Expect(cfg.YouTube.PageSize).To(Equal(25))
				Expect(cfg.UpstreamTimeout()).To(Equal(3 * time.Second))
			})

			It("should parse server, logging and matcher sections", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":9090"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvProd))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelDebug))
				Expect(cfg.Matcher.MaxSuggestions).To(Equal(5))
				Expect(cfg.Matcher.Cutoff).To(BeNumerically("~", 0.4))
			})

			It("should let the environment override the file", func() {
				os.Setenv("YOUTUBE_CHANNEL_ID", "UCenv")
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.YouTube.ChannelID).To(Equal("UCenv"))
			})
		})

		Context("with environment variables only", func() {
			It("should use defaults for everything but the credentials", func() {
				os.Setenv("YOUTUBE_API_KEY", "env-key")
				os.Setenv("YOUTUBE_CHANNEL_ID", "UCenv")

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":8080"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvDev))
				Expect(cfg.ShutdownTimeout()).To(Equal(5 * time.Second))
				Expect(cfg.YouTube.PageSize).To(Equal(5))
				Expect(cfg.UpstreamTimeout()).To(Equal(10 * time.Second))
				Expect(cfg.Matcher.MaxSuggestions).To(Equal(3))
				Expect(cfg.Matcher.Cutoff).To(BeNumerically("~", 0.6))
			})

			It("should accept the legacy variable names", func() {
				os.Setenv("MY_SECRET_TOKEN", "legacy-key")
				os.Setenv("CHANNEL_ID", "UClegacy")

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.YouTube.APIKey).To(Equal("legacy-key"))
				Expect(cfg.YouTube.ChannelID).To(Equal("UClegacy"))
			})

			It("should parse numeric overrides", func() {
				os.Setenv("YOUTUBE_API_KEY", "env-key")
				os.Setenv("YOUTUBE_CHANNEL_ID", "UCenv")
				os.Setenv("YOUTUBE_PAGE_SIZE", "50")

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.YouTube.PageSize).To(Equal(50))
			})
		})

		Context("with missing required values", func() {
			It("should fail without an API key", func() {
				os.Setenv("YOUTUBE_CHANNEL_ID", "UCenv")
				cfg, err := config.Load()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("APIKey"))
				Expect(cfg).To(BeNil())
			})

			It("should fail without a channel id", func() {
				os.Setenv("YOUTUBE_API_KEY", "env-key")
				cfg, err := config.Load()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("ChannelID"))
				Expect(cfg).To(BeNil())
			})

			It("should fail with nothing set", func() {
				_, err := config.Load()
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with invalid values", func() {
			BeforeEach(func() {
				os.Setenv("YOUTUBE_API_KEY", "env-key")
				os.Setenv("YOUTUBE_CHANNEL_ID", "UCenv")
			})

			It("should reject a page size above the upstream maximum", func() {
				os.Setenv("YOUTUBE_PAGE_SIZE", "51")
				_, err := config.Load()
				Expect(err).To(HaveOccurred())
			})

			It("should reject a malformed listen address", func() {
				os.Setenv("SERVER_ADDRESS", "invalid:host:port")
				_, err := config.Load()
				Expect(err).To(HaveOccurred())
			})

			It("should reject an unknown log level", func() {
				os.Setenv("LOGGING_LEVEL", "verbose")
				_, err := config.Load()
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Validate", func() {
		var cfg *config.Config

		BeforeEach(func() {
			cfg = &config.Config{
				Server:  config.ServerConfig{Address: ":8080", Environment: config.EnvDev, ShutdownTimeout: "5s"},
				Logging: config.LoggingConfig{Level: config.LogLevelInfo},
				YouTube: config.YouTubeConfig{APIKey: "k", ChannelID: "c", PageSize: 5, Timeout: "10s"},
				Matcher: config.MatcherConfig{MaxSuggestions: 3, Cutoff: 0.6},
			}
		})

		It("should accept a complete config", func() {
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should accept an http endpoint override", func() {
			cfg.YouTube.Endpoint = "http://127.0.0.1:9000/"
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should reject a non-positive timeout", func() {
			cfg.YouTube.Timeout = "0s"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a cutoff above one", func() {
			cfg.Matcher.Cutoff = 1.5
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unknown environment", func() {
			cfg.Server.Environment = "qa"
			Expect(cfg.Validate()).NotTo(Succeed())
		})
	})
})
