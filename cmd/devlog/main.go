package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	devlog "github.com/goliatone/go-devlog"
	"github.com/goliatone/go-devlog/digest"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("devlog: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("devlog", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML config file layered over the defaults")
	digestPath := fs.String("digest", "", "Path to the digest input (.json, or .md with YAML frontmatter)")
	outPath := fs.String("out", "-", "Where to write the package JSON; - writes to stdout")
	date := fs.String("date", "", "Override the digest date (YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *digestPath == "" {
		return fmt.Errorf("digest path is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	d, err := loadDigest(*digestPath)
	if err != nil {
		return err
	}
	if *date != "" {
		d.Date = *date
	}

	module, err := devlog.New(cfg)
	if err != nil {
		return fmt.Errorf("configure module: %w", err)
	}
	defer module.Close()

	pkg, err := module.Build(context.Background(), d)
	if err != nil {
		return fmt.Errorf("build package: %w", err)
	}

	encoded, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode package: %w", err)
	}
	encoded = append(encoded, '\n')

	if *outPath == "-" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	if err := os.WriteFile(*outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write package: %w", err)
	}
	return nil
}

func loadConfig(path string) (devlog.Config, error) {
	cfg := devlog.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func loadDigest(path string) (*digest.Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read digest: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return digest.ParseDocument(data)
	default:
		return digest.Parse(data)
	}
}
