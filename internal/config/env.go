package config

import (
	"bufio"
	"os"
	"strings"
)

// DevEnvFiles are read in order by LoadEnvFiles.
var DevEnvFiles = []string{".env", ".env.dev"}

// LoadEnvFile copies KEY=VALUE lines from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" {
			continue
		}
		if strings.HasPrefix(ln, "#") {
			continue
		}
		if strings.HasPrefix(ln, "export ") {
			ln = strings.TrimSpace(ln[len("export "):])
		}
		i := strings.IndexByte(ln, '=')
		if i <= 0 {
			continue
		}
		k := strings.TrimSpace(ln[:i])
		v := unquote(strings.TrimSpace(ln[i+1:]))
		if k == "" {
			continue
		}
		if _, set := os.LookupEnv(k); set {
			continue
		}
		os.Setenv(k, v)
	}
	return sc.Err()
}

func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := LoadEnvFile(p); err != nil {
			return err
		}
	}
	return nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
