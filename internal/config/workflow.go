package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// WorkflowConfig holds the tunables of the invoice and subscription workflows.
type WorkflowConfig struct {
	AcceptCloseDelay time.Duration    `mapstructure:"accept_close_delay"`
	RejectCloseDelay time.Duration    `mapstructure:"reject_close_delay"`
	ListCacheTTL     time.Duration    `mapstructure:"list_cache_ttl"`
	InFlightTTL      time.Duration    `mapstructure:"in_flight_ttl"`
	Messages         WorkflowMessages `mapstructure:"messages"`
}

// WorkflowMessages are the user-facing strings used when the backend does not supply one.
type WorkflowMessages struct {
	ExtendAccepted      string `mapstructure:"extend_accepted"`
	ExtendRejected      string `mapstructure:"extend_rejected"`
	ExtendFailed        string `mapstructure:"extend_failed"`
	PaymentFailed       string `mapstructure:"payment_failed"`
	PaymentNotProcessed string `mapstructure:"payment_not_processed"`
	RenewSucceeded      string `mapstructure:"renew_succeeded"`
	RenewFailed         string `mapstructure:"renew_failed"`
	SessionExpired      string `mapstructure:"session_expired"`
}

func DefaultWorkflowConfig() WorkflowConfig {
	return WorkflowConfig{
		AcceptCloseDelay: 2000 * time.Millisecond,
		RejectCloseDelay: 1000 * time.Millisecond,
		ListCacheTTL:     30 * time.Second,
		InFlightTTL:      time.Minute,
		Messages: WorkflowMessages{
			ExtendAccepted:      "Extend request accepted successfully",
			ExtendRejected:      "Extend request rejected",
			ExtendFailed:        "Failed to update extend request",
			PaymentFailed:       "Payment failed",
			PaymentNotProcessed: "Failed to process payment",
			RenewSucceeded:      "Subscription renewed successfully",
			RenewFailed:         "Failed to renew subscription. Please try again.",
			SessionExpired:      "Your session has expired. Please log in again.",
		},
	}
}

type WorkflowConfigHolder struct {
	current atomic.Value // holds WorkflowConfig
}

// NewStaticWorkflowConfigHolder returns a holder that never reloads.
func NewStaticWorkflowConfigHolder(cfg WorkflowConfig) *WorkflowConfigHolder {
	holder := &WorkflowConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewWorkflowConfigHolder(appCfg Config, log *zap.Logger) (*WorkflowConfigHolder, error) {
	v := viper.New()

	if appCfg.WorkflowConfigPath != "" {
		v.SetConfigFile(appCfg.WorkflowConfigPath)
	} else {
		v.SetConfigName("workflow")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/marketplace")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MARKETPLACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setWorkflowDefaults(v)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	cfg, err := decodeWorkflowConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticWorkflowConfigHolder(cfg)
	if !fileLoaded {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeWorkflowConfig(v)
		if err != nil {
			log.Warn("workflow config reload rejected", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("workflow config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *WorkflowConfigHolder) Get() WorkflowConfig {
	return h.current.Load().(WorkflowConfig)
}

func setWorkflowDefaults(v *viper.Viper) {
	d := DefaultWorkflowConfig()
	v.SetDefault("workflow.accept_close_delay", d.AcceptCloseDelay)
	v.SetDefault("workflow.reject_close_delay", d.RejectCloseDelay)
	v.SetDefault("workflow.list_cache_ttl", d.ListCacheTTL)
	v.SetDefault("workflow.in_flight_ttl", d.InFlightTTL)
	v.SetDefault("workflow.messages.extend_accepted", d.Messages.ExtendAccepted)
	v.SetDefault("workflow.messages.extend_rejected", d.Messages.ExtendRejected)
	v.SetDefault("workflow.messages.extend_failed", d.Messages.ExtendFailed)
	v.SetDefault("workflow.messages.payment_failed", d.Messages.PaymentFailed)
	v.SetDefault("workflow.messages.payment_not_processed", d.Messages.PaymentNotProcessed)
	v.SetDefault("workflow.messages.renew_succeeded", d.Messages.RenewSucceeded)
	v.SetDefault("workflow.messages.renew_failed", d.Messages.RenewFailed)
	v.SetDefault("workflow.messages.session_expired", d.Messages.SessionExpired)
}

func decodeWorkflowConfig(v *viper.Viper) (WorkflowConfig, error) {
	// Unmarshal walks every merged key, so defaults fill whatever the file leaves out.
	var root struct {
		Workflow WorkflowConfig `mapstructure:"workflow"`
	}
	if err := v.Unmarshal(&root); err != nil {
		return WorkflowConfig{}, err
	}
	cfg := root.Workflow
	if err := validateWorkflowConfig(cfg); err != nil {
		return WorkflowConfig{}, err
	}
	return cfg, nil
}

func validateWorkflowConfig(cfg WorkflowConfig) error {
	if cfg.AcceptCloseDelay < 0 || cfg.RejectCloseDelay < 0 {
		return errors.New("workflow close delays cannot be negative")
	}
	if cfg.ListCacheTTL <= 0 {
		return errors.New("workflow.list_cache_ttl must be positive")
	}
	if cfg.InFlightTTL <= 0 {
		return errors.New("workflow.in_flight_ttl must be positive")
	}
	if strings.TrimSpace(cfg.Messages.SessionExpired) == "" {
		return errors.New("workflow.messages.session_expired cannot be empty")
	}
	return nil
}
