package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Notwinner0/prbody/internal/commands"
)

func main() {
	parser := argparse.NewParser("prbody", "Render and parse pull request bodies")
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "Enable debug logging"})
	configPath := parser.String("c", "config", &argparse.Options{Help: "Config file with a [prbody] section"})
	// Create sub-commands
	createCmd := parser.NewCommand("create", "Render a body from the commits between two revisions.")
	createBase := createCmd.String("b", "base", &argparse.Options{Help: "Revision the pull request is based on"})
	createHead := createCmd.String("H", "head", &argparse.Options{Default: "HEAD", Help: "Revision the pull request ends at"})
	createPath := createCmd.String("p", "path", &argparse.Options{Default: ".", Help: "Path inside the repository"})
	createText := createCmd.String("t", "text", &argparse.Options{Help: "File with the free text, - for stdin"})
	createVerbatim := createCmd.Flag("", "verbatim", &argparse.Options{Help: "Fence messages instead of escaping them"})
	parseCmd := parser.NewCommand("parse", "Print the text and commits of a body as YAML.")
	parseFile := parseCmd.String("f", "file", &argparse.Options{Default: "-", Help: "Body to parse, - for stdin"})
	escapeCmd := parser.NewCommand("escape", "HTML-escape and linkify a message.")
	escapeFile := escapeCmd.String("f", "file", &argparse.Options{Default: "-", Help: "Message, - for stdin"})
	unescapeCmd := parser.NewCommand("unescape", "Reverse escape.")
	unescapeFile := unescapeCmd.String("f", "file", &argparse.Options{Default: "-", Help: "Message, - for stdin"})
	logCmd := parser.NewCommand("log", "List the commits create would render.")
	logBase := logCmd.String("b", "base", &argparse.Options{Help: "Revision the pull request is based on"})
	logHead := logCmd.String("H", "head", &argparse.Options{Default: "HEAD", Help: "Revision the pull request ends at"})
	logPath := logCmd.String("p", "path", &argparse.Options{Default: ".", Help: "Path inside the repository"})
	describeCmd := parser.NewCommand("describe", "Summarize a pull request from its body.")
	describeNumber := describeCmd.Int("n", "number", &argparse.Options{Required: true, Help: "Pull request number"})
	describeTitle := describeCmd.String("t", "title", &argparse.Options{Help: "Pull request title"})
	describeFile := describeCmd.String("f", "file", &argparse.Options{Default: "-", Help: "Body, - for stdin"})
	initConfigCmd := parser.NewCommand("init-config", "Write a config file with the default settings.")
	initConfigPath := initConfigCmd.String("o", "output", &argparse.Options{Default: "prbody.ini", Help: "File to create"})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch {
	case createCmd.Happened():
		err := commands.CmdCreate(os.Stdout, commands.CreateOptions{
			RepoPath:   *createPath,
			Base:       *createBase,
			Head:       *createHead,
			TextFile:   *createText,
			Verbatim:   *createVerbatim,
			ConfigPath: *configPath,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Error create")
		}
	case parseCmd.Happened():
		if err := commands.CmdParse(os.Stdout, *parseFile, *configPath); err != nil {
			log.Fatal().Err(err).Msg("Error parse")
		}
	case escapeCmd.Happened():
		if err := commands.CmdEscape(os.Stdout, *escapeFile, *configPath, false); err != nil {
			log.Fatal().Err(err).Msg("Error escape")
		}
	case unescapeCmd.Happened():
		if err := commands.CmdEscape(os.Stdout, *unescapeFile, *configPath, true); err != nil {
			log.Fatal().Err(err).Msg("Error unescape")
		}
	case logCmd.Happened():
		if err := commands.CmdLog(os.Stdout, *logPath, *logBase, *logHead, *configPath); err != nil {
			log.Fatal().Err(err).Msg("Error log")
		}
	case describeCmd.Happened():
		if err := commands.CmdDescribe(os.Stdout, *describeNumber, *describeTitle, *describeFile); err != nil {
			log.Fatal().Err(err).Msg("Error describe")
		}
	case initConfigCmd.Happened():
		if err := commands.CmdInitConfig(*initConfigPath); err != nil {
			log.Fatal().Err(err).Msg("Error init-config")
		}
		fmt.Printf("Wrote default config to %s\n", *initConfigPath)
	default:
		log.Fatal().Msg("Bad command.")
	}
}
