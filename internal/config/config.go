package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"3000"`

	DBType     string `env:"DBType" envDefault:"sqlite"`
	DSNURL     string `env:"DSN_URL" envDefault:""`
	DBUser     string `env:"DBUser" envDefault:""`
	DBPassword string `env:"DBPassword" envDefault:""`
	DBAddr     string `env:"DBAddr" envDefault:""`
	DBName     string `env:"DBName" envDefault:"barefoot"`
	DBPath     string `env:"DBPath" envDefault:"datas/barefoot.db"`
	DBPort     string `env:"DBPort" envDefault:"3306"`

	StorageType          string `env:"STORAGE_TYPE" envDefault:"local"`
	StorageLocalDir      string `env:"STORAGE_LOCAL_DIR" envDefault:"datas/images"`
	StoragePublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"/files"`

	// S3 兼容存储配置
	StorageS3Region          string `env:"STORAGE_S3_REGION"`
	StorageS3Bucket          string `env:"STORAGE_S3_BUCKET"`
	StorageS3Prefix          string `env:"STORAGE_S3_PREFIX"`
	StorageS3Endpoint        string `env:"STORAGE_S3_ENDPOINT"`
	StorageS3AccessKeyID     string `env:"STORAGE_S3_ACCESS_KEY_ID"`
	StorageS3SecretAccessKey string `env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	StorageS3SessionToken    string `env:"STORAGE_S3_SESSION_TOKEN"`
	StorageS3ForcePathStyle  bool   `env:"STORAGE_S3_FORCE_PATH_STYLE" envDefault:"false"`

	// 阿里云 OSS 存储配置
	StorageOSSEndpoint        string `env:"STORAGE_OSS_ENDPOINT"`
	StorageOSSBucket          string `env:"STORAGE_OSS_BUCKET"`
	StorageOSSPrefix          string `env:"STORAGE_OSS_PREFIX"`
	StorageOSSAccessKeyID     string `env:"STORAGE_OSS_ACCESS_KEY_ID"`
	StorageOSSAccessKeySecret string `env:"STORAGE_OSS_ACCESS_KEY_SECRET"`

	// 腾讯云 COS 存储配置
	StorageCOSBucketURL string `env:"STORAGE_COS_BUCKET_URL"`
	StorageCOSPrefix    string `env:"STORAGE_COS_PREFIX"`
	StorageCOSSecretID  string `env:"STORAGE_COS_SECRET_ID"`
	StorageCOSSecretKey string `env:"STORAGE_COS_SECRET_KEY"`

	// Cloudflare R2 存储配置
	StorageR2AccountID       string `env:"STORAGE_R2_ACCOUNT_ID"`
	StorageR2Endpoint        string `env:"STORAGE_R2_ENDPOINT"`
	StorageR2Region          string `env:"STORAGE_R2_REGION" envDefault:"auto"`
	StorageR2Bucket          string `env:"STORAGE_R2_BUCKET"`
	StorageR2Prefix          string `env:"STORAGE_R2_PREFIX"`
	StorageR2AccessKeyID     string `env:"STORAGE_R2_ACCESS_KEY_ID"`
	StorageR2SecretAccessKey string `env:"STORAGE_R2_SECRET_ACCESS_KEY"`

	JWTSecret            string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTIssuer            string `env:"JWT_ISSUER" envDefault:"barefoot-nomad"`
	JWTExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES" envDefault:"1440"`
	PasswordHashCost     int    `env:"PASSWORD_HASH_COST" envDefault:"10"`

	// 邮件链接使用的外部地址
	APIBaseURL  string `env:"API_BASE_URL" envDefault:"http://localhost:3000"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:8080"`

	// SMTP 配置，SMTPHost 为空时只记录邮件日志
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"Barefoot Nomad <no-reply@barefootnomad.com>"`

	// 第三方登录
	OAuthGoogleClientID       string `env:"OAUTH_GOOGLE_CLIENT_ID"`
	OAuthGoogleClientSecret   string `env:"OAUTH_GOOGLE_CLIENT_SECRET"`
	OAuthFacebookClientID     string `env:"OAUTH_FACEBOOK_CLIENT_ID"`
	OAuthFacebookClientSecret string `env:"OAUTH_FACEBOOK_CLIENT_SECRET"`

	SeedDefaultUsers bool   `env:"SEED_DEFAULT_USERS" envDefault:"false"`
	SeedPassword     string `env:"SEED_PASSWORD" envDefault:""`

	DefaultLanguage       string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"5"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
}

func ParseConfig() (Config, error) {
	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	logrus.WithFields(logrus.Fields{
		"db_type":      Conf.DBType,
		"storage_type": Conf.StorageType,
		"http_port":    Conf.HTTPPort,
	}).Debug("config parsed")
	return Conf, nil
}

// TokenExpiry returns the configured JWT lifetime.
func (c Config) TokenExpiry() time.Duration {
	return time.Duration(c.JWTExpirationMinutes) * time.Minute
}

// RequestTimeout bounds every store lookup and email dispatch made for one request.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
