package config

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"

	"wb-review-notifier/internal/model"
)

type Wildberries struct {
	ApiUrl  string `env:"WB_API_URL" envDefault:"https://feedbacks-api.wb.ru/api/v1"`
	TokenKD string `env:"WB_TOKEN_KD,required"`
	TokenOB string `env:"WB_TOKEN_OB,required"`
}

// Tokens maps each shop to its seller API token.
func (w Wildberries) Tokens() map[model.Shop]string {
	return map[model.Shop]string{
		model.ShopKD: w.TokenKD,
		model.ShopOB: w.TokenOB,
	}
}

type Telegram struct {
	ReviewBotToken     string `env:"TG_REVIEW_BOT_TOKEN,required"`
	LateReviewBotToken string `env:"TG_LATE_REVIEW_BOT_TOKEN,required"`
}

type Firebase struct {
	Type                    string        `env:"FIREBASE_TYPE,required" json:"type"`
	ProjectId               string        `env:"FIREBASE_PROJECT_ID,required" json:"project_id"`
	PrivateKeyId            string        `env:"FIREBASE_PRIVATE_KEY_ID,required" json:"private_key_id"`
	PrivateKey              string        `env:"FIREBASE_PRIVATE_KEY,required" json:"private_key"`
	ClientEmail             string        `env:"FIREBASE_CLIENT_EMAIL,required" json:"client_email"`
	ClientId                string        `env:"FIREBASE_CLIENT_ID,required" json:"client_id"`
	AuthUri                 string        `env:"FIREBASE_AUTH_URI,required" json:"auth_uri"`
	TokenUri                string        `env:"FIREBASE_TOKEN_URI,required" json:"token_uri"`
	AuthProviderX509CertUrl string        `env:"FIREBASE_AUTH_PROVIDER_X509_CERT_URL,required" json:"auth_provider_x509_cert_url"`
	ClientX509CertUrl       string        `env:"FIREBASE_CLIENT_X509_CERT_URL,required" json:"client_x509_cert_url"`
	WriteTimeoutSecond      time.Duration `env:"FIREBASE_WRITE_TIMEOUT_SECOND"`
}

type Broadcast struct {
	Interval             time.Duration `env:"BROADCAST_INTERVAL" envDefault:"60s"`
	OverdueLimit         time.Duration `env:"OVERDUE_LIMIT" envDefault:"600s"`
	MaxAnswerDelay       time.Duration `env:"MAX_ANSWER_DELAY" envDefault:"120s"`
	OverdueWorkHoursOnly bool          `env:"OVERDUE_WORK_HOURS_ONLY" envDefault:"false"`
}

type Config struct {
	Wildberries
	Telegram
	Firebase
	Broadcast
}

func LoadConfigOrPanic() Config {
	var config *Config = new(Config)
	if err := env.Parse(config); err != nil {
		panic(err)
	}

	config.normalize()
	return *config
}

func (c *Config) normalize() {

	decodedBytes, err := base64.StdEncoding.DecodeString(c.Firebase.PrivateKey)
	if err != nil {
		panic(err)
	}
	c.Firebase.PrivateKey = string(decodedBytes)
	c.Firebase.PrivateKey = strings.ReplaceAll(c.Firebase.PrivateKey, "\\n", "\n")

	if c.WriteTimeoutSecond == 0 {
		c.WriteTimeoutSecond = time.Second * 30
	}
}
