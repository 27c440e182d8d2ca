package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
)

func main() {
	company := flag.String("company", "", "company name to analyze (prompts on stdin when omitted)")
	configPath := flag.String("config", "config.yaml", "path to the optional config file")
	flag.Parse()

	if err := run(*company, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(company, configPath string) error {
	ctx := context.Background()

	shutdown, err := initializeSystem(ctx)
	if err != nil {
		return err
	}
	defer shutdown(ctx)

	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return err
	}

	if company == "" {
		company, err = promptCompany()
		if err != nil {
			return err
		}
	}

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, company)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))

	if result.NewsDesc != "" {
		fmt.Println()
		fmt.Println("Recent News:")
		fmt.Println(result.NewsDesc)
	}
	return nil
}

func promptCompany() (string, error) {
	fmt.Print("Company name: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read company name: %w", err)
	}
	company := strings.TrimSpace(line)
	if company == "" {
		return "", fmt.Errorf("company name cannot be empty")
	}
	return company, nil
}
