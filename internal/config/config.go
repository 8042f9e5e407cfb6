package config

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	vpr "github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/config/file"
	"github.com/openclaw/clawctl/internal/policy"
	"github.com/openclaw/clawctl/internal/version"
)

var viper = vpr.New()

var configuration Configuration

type Configuration struct {
	Region         string   `mapstructure:"region" yaml:"region"`
	Environment    string   `mapstructure:"environment" yaml:"environment"`
	Profile        string   `mapstructure:"profile" yaml:"profile,omitempty"`
	AllowedDomains []string `mapstructure:"allowed_domains" yaml:"allowed_domains"`
	InstanceType   string   `mapstructure:"instance_type" yaml:"instance_type"`
	GatewayPort    int      `mapstructure:"gateway_port" yaml:"gateway_port"`
	GatewayVersion string   `mapstructure:"gateway_version" yaml:"gateway_version,omitempty"`
	VpcCidr        string   `mapstructure:"vpc_cidr" yaml:"vpc_cidr"`
	LogLevel       string   `mapstructure:"clawctl_log_level" yaml:"clawctl_log_level"`
}

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-gov)?-[a-z]+-\d$`)

var environments = []string{"dev", "staging", "prod"}

func GetConfig() Configuration {
	return configuration
}

// ValidateConfig checks the region pattern, the environment enumeration and
// the allowlist shape. Everything else (CIDR syntax, instance types, ports)
// is left to AWS API validation.
func ValidateConfig() error {
	if !regionPattern.MatchString(configuration.Region) {
		return clawerrors.ErrInvalidRegion{Region: configuration.Region}
	}
	validEnv := false
	for _, e := range environments {
		if configuration.Environment == e {
			validEnv = true
			break
		}
	}
	if !validEnv {
		return clawerrors.ErrInvalidEnvironment{Environment: configuration.Environment}
	}
	if err := policy.ValidateAllowlist(configuration.AllowedDomains); err != nil {
		return err
	}
	if configuration.GatewayVersion != "" {
		if err := version.Validate(configuration.GatewayVersion); err != nil {
			return err
		}
	}
	return nil
}

func New() *Configuration {
	c := Configuration{
		InstanceType: "t3.medium",
		GatewayPort:  18789,
		VpcCidr:      "10.0.0.0/16",
		LogLevel:     "info",
	}
	return &c
}

func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME/.clawctl")
		viper.AddConfigPath(".")
	}
	_ = viper.BindEnv("region", "CLAWCTL_REGION")
	_ = viper.BindEnv("environment", "CLAWCTL_ENVIRONMENT")
	_ = viper.BindEnv("profile", "CLAWCTL_PROFILE")
	_ = viper.BindEnv("CLAWCTL_LOG_LEVEL")
	viper.AutomaticEnv()

	defaults := New()
	viper.SetDefault("instance_type", defaults.InstanceType)
	viper.SetDefault("gateway_port", defaults.GatewayPort)
	viper.SetDefault("vpc_cidr", defaults.VpcCidr)
	viper.SetDefault("clawctl_log_level", defaults.LogLevel)

	_ = viper.ReadInConfig()

	configuration = Configuration{}
	if err := viper.Unmarshal(&configuration); err != nil {
		log.Fatalf("ERROR: Error reading config: %v", err)
	}
}

// GenerateConfig prompts for the deployment settings and writes them as YAML
// to $HOME/.clawctl/config.yaml.
func GenerateConfig(in io.Reader) {
	c := promptConfig(in)
	bytes, _ := yaml.Marshal(c)
	file.Create(string(bytes))
}

func promptConfig(in io.Reader) Configuration {
	reader := bufio.NewReader(in)
	fmt.Println("Enter AWS region: ")
	region, _ := reader.ReadString('\n')

	fmt.Println("Enter environment (dev, staging, prod): ")
	environment, _ := reader.ReadString('\n')

	fmt.Println("Enter allowed egress domains (comma separated): ")
	domains, _ := reader.ReadString('\n')

	allowed := make([]string, 0)
	for _, d := range strings.Split(domains, ",") {
		if d = strings.TrimSpace(d); d != "" {
			allowed = append(allowed, d)
		}
	}

	c := New()
	c.Region = strings.TrimSpace(region)
	c.Environment = strings.TrimSpace(environment)
	c.AllowedDomains = allowed
	return *c
}
