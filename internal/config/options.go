package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	count "github.com/taboola/cassandra-count"
	"github.com/taboola/cassandra-count/adapter/cql"
	"github.com/taboola/cassandra-count/scatter"
	"github.com/taboola/cassandra-count/types"
)

// Driver names accepted by --driver.
const (
	DriverV1 = "v1"
	DriverV2 = "v2"
)

// maxSplitSizeMB is the largest split size whose byte count fits in an int64.
const maxSplitSizeMB = math.MaxInt64 >> 20

// Flag names.
const (
	FlagHost               = "host"
	FlagPort               = "port"
	FlagKeyspace           = "keyspace"
	FlagTable              = "table"
	FlagUser               = "user"
	FlagPassword           = "pw"
	FlagTruststorePath     = "ssl-truststore-path"
	FlagTruststorePassword = "ssl-truststore-pw"
	FlagKeystorePath       = "ssl-keystore-path"
	FlagKeystorePassword   = "ssl-keystore-pw"
	FlagVerifyHostname     = "ssl-verify-hostname"
	FlagConsistency        = "consistency-level"
	FlagBeginToken         = "begin-token"
	FlagEndToken           = "end-token"
	FlagNumFutures         = "num-futures"
	FlagNumSplits          = "num-splits"
	FlagSplitSize          = "split-size"
	FlagReadTimeout        = "read-timeout"
	FlagConnectTimeout     = "connect-timeout"
	FlagDebug              = "debug"
	FlagConfigFile         = "config-file"
	FlagDriver             = "driver"
	FlagLocalDC            = "local-dc"
	FlagCancelOnFailure    = "cancel-on-failure"
	FlagNATSURL            = "nats-url"
	FlagNATSBucket         = "nats-bucket"
	FlagMetricsFile        = "metrics-file"
)

var aliases = map[string]string{
	"configFile":         FlagConfigFile,
	"consistencyLevel":   FlagConsistency,
	"beginToken":         FlagBeginToken,
	"endToken":           FlagEndToken,
	"numFutures":         FlagNumFutures,
	"numSplits":          FlagNumSplits,
	"splitSize":          FlagSplitSize,
	"readTimeout":        FlagReadTimeout,
	"connectTimeout":     FlagConnectTimeout,
	"ssl-truststore-pwd": FlagTruststorePassword,
	"ssl-keystore-pwd":   FlagKeystorePassword,
	"localDC":            FlagLocalDC,
}

func normalize(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := aliases[name]; ok {
		return pflag.NormalizedName(canonical)
	}

	return pflag.NormalizedName(name)
}

// Options holds the raw command line settings.
type Options struct {
	Hosts    []string
	Port     int
	Keyspace string
	Table    string
	User     string
	Password string

	TruststorePath     string
	TruststorePassword string
	KeystorePath       string
	KeystorePassword   string
	VerifyHostname     bool

	Consistency string
	BeginToken  string
	EndToken    string

	NumFutures  int
	NumSplits   int
	SplitSizeMB int64

	ReadTimeoutMs    int
	ConnectTimeoutMs int

	Debug           int
	ConfigFile      string
	Driver          string
	LocalDC         string
	CancelOnFailure bool

	NATSURL     string
	NATSBucket  string
	MetricsFile string
}

// Register adds every flag to fs, bound to o, with its default value.
func (o *Options) Register(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(normalize)

	fs.StringSliceVar(&o.Hosts, FlagHost, nil, "Comma-separated contact points (required)")
	fs.IntVar(&o.Port, FlagPort, cql.DefaultPort, "CQL port number")
	fs.StringVar(&o.Keyspace, FlagKeyspace, "", "Keyspace of the table (required)")
	fs.StringVar(&o.Table, FlagTable, "", "Table to count (required)")
	fs.StringVar(&o.User, FlagUser, "", "Cassandra username")
	fs.StringVar(&o.Password, FlagPassword, "", "Password for user")

	fs.StringVar(&o.TruststorePath, FlagTruststorePath, "", "Path to the SSL truststore (PKCS#12 or PEM)")
	fs.StringVar(&o.TruststorePassword, FlagTruststorePassword, "", "Password for the SSL truststore")
	fs.StringVar(&o.KeystorePath, FlagKeystorePath, "", "Path to the SSL keystore (PKCS#12)")
	fs.StringVar(&o.KeystorePassword, FlagKeystorePassword, "", "Password for the SSL keystore")
	fs.BoolVar(&o.VerifyHostname, FlagVerifyHostname, false, "Verify the server host name against its certificate")

	fs.StringVar(&o.Consistency, FlagConsistency, types.LocalOne.String(), "Consistency level of the count queries")
	fs.StringVar(&o.BeginToken, FlagBeginToken, "", "Exclusive begin token of the counted interval")
	fs.StringVar(&o.EndToken, FlagEndToken, "", "Inclusive end token of the counted interval")

	fs.IntVar(&o.NumFutures, FlagNumFutures, scatter.DefaultWindowSize, "Maximum concurrent count queries")
	fs.IntVar(&o.NumSplits, FlagNumSplits, 0,
		"Number of total splits (0 for the natural token ranges, -1 for size-estimate splits)")
	fs.Int64Var(&o.SplitSizeMB, FlagSplitSize, count.DefaultSplitSizeBytes>>20, "Split size in MB for size-estimate splits")

	fs.IntVar(&o.ReadTimeoutMs, FlagReadTimeout, int(cql.DefaultReadTimeout/time.Millisecond), "Read timeout in milliseconds")
	fs.IntVar(&o.ConnectTimeoutMs, FlagConnectTimeout, int(cql.DefaultConnectTimeout/time.Millisecond),
		"Connect timeout in milliseconds")

	fs.IntVar(&o.Debug, FlagDebug, 0, "Diagnostic verbosity on stderr (0, 1 or 2)")
	fs.StringVar(&o.ConfigFile, FlagConfigFile, "", "File with configuration options")
	fs.StringVar(&o.Driver, FlagDriver, DriverV1, "CQL driver generation (v1 or v2)")
	fs.StringVar(&o.LocalDC, FlagLocalDC, "", "Restrict coordinators to this datacenter")
	fs.BoolVar(&o.CancelOnFailure, FlagCancelOnFailure, false,
		"Cancel the other in-flight queries of a window when one fails")

	fs.StringVar(&o.NATSURL, FlagNATSURL, "", "Publish the result to this NATS server")
	fs.StringVar(&o.NATSBucket, FlagNATSBucket, "", "JetStream key-value bucket for published results")
	fs.StringVar(&o.MetricsFile, FlagMetricsFile, "", "Write Prometheus metrics to this file at exit")
}

// Validate checks the options for problems that can be found without network access.
func (o *Options) Validate() error {
	var errs []error
	problem := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if len(o.Hosts) == 0 {
		problem("--%s is required", FlagHost)
	}
	if o.Keyspace == "" {
		problem("--%s is required", FlagKeyspace)
	}
	if o.Table == "" {
		problem("--%s is required", FlagTable)
	}
	if o.Port < 1 || o.Port > 65535 {
		problem("--%s must be between 1 and 65535, got %d", FlagPort, o.Port)
	}

	pairs := []struct {
		a, b   string
		va, vb string
	}{
		{FlagTruststorePath, FlagTruststorePassword, o.TruststorePath, o.TruststorePassword},
		{FlagKeystorePath, FlagKeystorePassword, o.KeystorePath, o.KeystorePassword},
		{FlagBeginToken, FlagEndToken, o.BeginToken, o.EndToken},
	}
	for _, p := range pairs {
		if (p.va == "") != (p.vb == "") {
			problem("--%s and --%s must be given together", p.a, p.b)
		}
	}

	for _, path := range []struct{ flag, value string }{
		{FlagTruststorePath, o.TruststorePath},
		{FlagKeystorePath, o.KeystorePath},
	} {
		if path.value == "" {
			continue
		}
		if _, err := os.Stat(path.value); err != nil {
			problem("--%s: %w", path.flag, err)
		}
	}

	if o.Debug < 0 || o.Debug > 2 {
		problem("--%s must be 0, 1 or 2, got %d", FlagDebug, o.Debug)
	}
	if o.Driver != DriverV1 && o.Driver != DriverV2 {
		problem("--%s must be %q or %q, got %q", FlagDriver, DriverV1, DriverV2, o.Driver)
	}
	if o.SplitSizeMB < 0 || o.SplitSizeMB > maxSplitSizeMB {
		problem("--%s must be between 0 and %d MB, got %d", FlagSplitSize, maxSplitSizeMB, o.SplitSizeMB)
	}
	if o.ReadTimeoutMs <= 0 {
		problem("--%s must be positive, got %d", FlagReadTimeout, o.ReadTimeoutMs)
	}
	if o.ConnectTimeoutMs <= 0 {
		problem("--%s must be positive, got %d", FlagConnectTimeout, o.ConnectTimeoutMs)
	}
	if o.NATSBucket != "" && o.NATSURL == "" {
		problem("--%s requires --%s", FlagNATSBucket, FlagNATSURL)
	}

	if len(errs) > 0 {
		return types.NewConfigurationError("validate flags", errors.Join(errs...))
	}

	return nil
}

// CountConfig converts the options into a validated run configuration.
func (o *Options) CountConfig() (count.Config, error) {
	cfg := count.DefaultConfig()
	cfg.Keyspace = o.Keyspace
	cfg.Table = o.Table
	cfg.NumFutures = o.NumFutures
	cfg.NumSplits = o.NumSplits
	cfg.SplitSizeBytes = o.SplitSizeMB << 20
	cfg.ReadTimeout = time.Duration(o.ReadTimeoutMs) * time.Millisecond
	cfg.CancelOnFailure = o.CancelOnFailure

	consistency, err := types.ParseConsistency(o.Consistency)
	if err != nil {
		return count.Config{}, types.NewConfigurationError("--"+FlagConsistency, err)
	}
	cfg.Consistency = consistency

	if o.BeginToken != "" || o.EndToken != "" {
		begin, err := types.ParseToken(o.BeginToken)
		if err != nil {
			return count.Config{}, types.NewConfigurationError("--"+FlagBeginToken, err)
		}
		end, err := types.ParseToken(o.EndToken)
		if err != nil {
			return count.Config{}, types.NewConfigurationError("--"+FlagEndToken, err)
		}
		cfg.BeginToken = &begin
		cfg.EndToken = &end
	}

	if err := cfg.Validate(); err != nil {
		return count.Config{}, err
	}

	return cfg, nil
}

// ConnectOptions converts the options into driver connection settings.
func (o *Options) ConnectOptions() (cql.ConnectOptions, error) {
	consistency, err := types.ParseConsistency(o.Consistency)
	if err != nil {
		return cql.ConnectOptions{}, types.NewConfigurationError("--"+FlagConsistency, err)
	}

	hosts := make([]string, 0, len(o.Hosts))
	for _, h := range o.Hosts {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}

	opts := cql.ConnectOptions{
		Hosts:          hosts,
		Port:           o.Port,
		Username:       o.User,
		Password:       o.Password,
		Consistency:    consistency,
		ConnectTimeout: time.Duration(o.ConnectTimeoutMs) * time.Millisecond,
		ReadTimeout:    time.Duration(o.ReadTimeoutMs) * time.Millisecond,
		LocalDC:        o.LocalDC,
	}

	if o.TruststorePath != "" || o.KeystorePath != "" || o.VerifyHostname {
		opts.TLS = &cql.TLSOptions{
			TruststorePath:     o.TruststorePath,
			TruststorePassword: o.TruststorePassword,
			KeystorePath:       o.KeystorePath,
			KeystorePassword:   o.KeystorePassword,
			VerifyHostname:     o.VerifyHostname,
		}
	}

	return opts.WithDefaults(), nil
}
