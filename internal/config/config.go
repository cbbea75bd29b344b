package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

type Configuration struct {
	IMAP          IMAPConfig `json:"imap"`
	FetchInterval Duration   `json:"fetchInterval"`
	HTTPListen    string     `json:"httpListen" validate:"required,hostname_port"`
}

type IMAPConfig struct {
	Host       string   `json:"host" validate:"required"`
	Port       int      `json:"port" validate:"required,min=1,max=65535"`
	User       string   `json:"user" validate:"required"`
	Pass       string   `json:"pass" validate:"required"`
	Folder     string   `json:"folder" validate:"required"`
	SSL        bool     `json:"ssl"`
	IgnoreCert bool     `json:"ignoreCert"`
	Timeout    Duration `json:"timeout"`
}

func GetConfig(defaults Configuration, f string) (*Configuration, error) {
	if f == "" {
		return nil, fmt.Errorf("please provide a valid config file")
	}

	b, err := os.ReadFile(f) // nolint: gosec
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(b))
	if err := decoder.Decode(&defaults); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&defaults); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if defaults.FetchInterval.Duration <= 0 {
		return nil, fmt.Errorf("fetchInterval must be greater than zero")
	}

	return &defaults, nil
}
