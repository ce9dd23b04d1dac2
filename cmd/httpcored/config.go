/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// config is the subset of nginx.conf's top-level directives this core
// cares about: worker count, listen addresses, the pidfile path, and the
// per-connection/per-body limits the reqbody and connreg packages enforce.
// Bound through spf13/viper directly (see DESIGN.md for why the host
// package's own viper wrapper is not reconstructed) so any of -c's file,
// -g's inline overrides, or HTTPCORED_-prefixed environment variables can
// supply a value.
type config struct {
	Listen         []string `mapstructure:"listen"`
	Workers        int      `mapstructure:"workers"`
	PIDFile        string   `mapstructure:"pid"`
	MaxConnections int      `mapstructure:"max_connections"`
	MaxBodySize    int64    `mapstructure:"max_body_size"`
}

func defaultConfig() config {
	return config{
		Listen:         []string{":8080"},
		Workers:        2,
		PIDFile:        "httpcored.pid",
		MaxConnections: 1024,
		MaxBodySize:    10 << 20,
	}
}

// loadConfig builds the effective configuration from, in ascending
// precedence: compiled-in defaults, the -c config file (if any), -g's
// inline "key=value[,key=value...]" directives, and HTTPCORED_-prefixed
// environment variables. -p prefixes any relative path the config carries
// (the pidfile, a relative -c path already having been resolved by cobra).
func loadConfig(cfgPath, prefix, inline string) (config, error) {
	v := viper.New()
	v.SetEnvPrefix("HTTPCORED")
	v.AutomaticEnv()

	def := defaultConfig()
	v.SetDefault("listen", def.Listen)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("pid", def.PIDFile)
	v.SetDefault("max_connections", def.MaxConnections)
	v.SetDefault("max_body_size", def.MaxBodySize)

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return config{}, ErrorConfigRead.Error(err)
		}
	}

	for _, directive := range strings.Split(inline, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}
		kv := strings.SplitN(directive, "=", 2)
		if len(kv) != 2 {
			return config{}, ErrorConfigInvalid.Error()
		}
		v.Set(strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1]))
	}

	var c config
	if err := v.Unmarshal(&c); err != nil {
		return config{}, ErrorConfigInvalid.Error(err)
	}

	if c.Workers <= 0 {
		return config{}, ErrorConfigInvalid.Error()
	}

	if prefix != "" && !filepath.IsAbs(c.PIDFile) {
		c.PIDFile = filepath.Join(prefix, c.PIDFile)
	}

	return c, nil
}
