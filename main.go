package main

import (
	"fmt"
	"os"
	"strings"

	"blog/app/config"
	"blog/app/logger"
	"blog/service"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command line. Config and logging are only set up
// for commands that touch the database or serve requests.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help", "-h", "--help":
		printHelp()
		return
	case "version":
		fmt.Printf("blog version %s\n", CliVersion)
		return
	}

	config.LoadDotEnvs("")
	cfg, err := config.Load(os.Getenv("BLOG_CONFIG"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		exit(1)
		return
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		exit(1)
		return
	}

	args := append([]string{cmd}, os.Args[2:]...)
	code := service.HandleCommand(args, cfg, log)
	log.Sync()
	if code != 0 {
		exit(code)
	}
}

func printHelp() {
	fmt.Print(service.Usage)
}
