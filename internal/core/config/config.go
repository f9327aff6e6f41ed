package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool

	// File 非空时额外写文件并按大小切割
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Admin 后台业务配置：操作员账号 + 列表页大小 + 短链单价
type Admin struct {
	Username      string  // 操作员登录名
	PasswordHash  string  // bcrypt，禁止明文
	PageSize      int     // 列表固定页大小
	ShortlinkCost float64 // 每条短链计费单价，也是营收口径
	StatsCacheSec int     // 总览缓存秒数，0 = 不缓存
	RecentItems   int     // 仪表盘最近条数
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	DB    DB
	Redis Redis `mapstructure:"redis"`
	Admin Admin
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 业务默认值（对应原面板 RECORDS_PER_PAGE / SHORTLINK_COST）
	v.SetDefault("admin.pagesize", 20)
	v.SetDefault("admin.shortlinkcost", 10)
	v.SetDefault("admin.statscachesec", 10)
	v.SetDefault("admin.recentitems", 5)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	if c.Admin.PageSize <= 0 {
		c.Admin.PageSize = 20
	}
	return &c
}
