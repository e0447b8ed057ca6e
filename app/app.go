package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const (
	cfgName     = "application"
	testCfgName = "application_test"
	envPrefix   = "CLANADMIN"
)

var (
	cfg  *viper.Viper
	err  error
	once sync.Once
)

// Config loads the application configuration once.
//
// Rules:
//  1. An optional .env next to the project root (or in the CWD) is loaded into the environment.
//  2. Under `go test` application_test.yml is preferred, otherwise application.yml.
//  3. Both are searched in the project root, its ./config, the CWD and CWD/config.
//  4. Every key may be overridden by CLANADMIN_<KEY>, dots replaced by underscores.
//
// A missing file is not an error: defaults apply.
func Config() mo.Result[*viper.Viper] {
	once.Do(func() {
		cfg, err = load()
	})
	return lo.If(err != nil, mo.Err[*viper.Viper](err)).Else(mo.Ok(cfg))
}

func load() (*viper.Viper, error) {
	cwd, _ := os.Getwd()
	root, hasRoot := findProjectRoot(cwd)

	dotenv := lo.Filter([]string{filepath.Join(root, ".env"), filepath.Join(cwd, ".env")}, func(p string, _ int) bool {
		_, statErr := os.Stat(p)
		return statErr == nil
	})
	if len(dotenv) > 0 {
		// godotenv never overrides variables already present in the environment.
		_ = godotenv.Load(lo.Uniq(dotenv)...)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if hasRoot {
		v.AddConfigPath(root)
		v.AddConfigPath(filepath.Join(root, "config"))
	}
	v.AddConfigPath(cwd)
	v.AddConfigPath(filepath.Join(cwd, "config"))

	name := lo.Ternary(isTestProcess(), testCfgName, cfgName)
	v.SetConfigName(name)
	if readErr := v.ReadInConfig(); readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(readErr, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, readErr)
	}
	return v, nil
}

// findProjectRoot walks upward from start until it finds a directory containing go.mod.
func findProjectRoot(start string) (string, bool) {
	dir := start
	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// isTestProcess reports whether the binary was started by `go test`.
func isTestProcess() bool {
	return lo.ContainsBy(os.Args, func(a string) bool {
		return strings.HasPrefix(a, "-test.")
	})
}
