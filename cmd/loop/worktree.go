// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// Files and directories that are gitignored but needed in a fresh
// worktree.
var worktreeCopyFiles = []string{".env.local"}
var worktreeCopyDirs = []string{"notes", "data"}

// worktreeCmd represents the worktree command
var worktreeCmd = &cobra.Command{
	Use:   "worktree <name>",
	Short: "Create a git worktree for a feature branch",
	Long: `Create a git worktree with a feat/ branch for parallel agent work.

Gitignored local state (.env.local, notes and data directories) is
copied into the new worktree so sessions there start with the same
context.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		branch := name
		if !strings.Contains(branch, "/") {
			branch = "feat/" + name
		}

		repoRoot, err := gitOutput(cmd, "rev-parse", "--show-toplevel")
		if err != nil {
			return fmt.Errorf("not inside a git repository: %w", err)
		}

		dir := filepath.Join(filepath.Dir(repoRoot), filepath.Base(repoRoot)+"-"+strings.ReplaceAll(name, "/", "-"))

		gitArgs := []string{"worktree", "add", "-b", branch, dir}
		if worktreeOpts.base != "" {
			gitArgs = append(gitArgs, worktreeOpts.base)
		}
		if _, err := gitOutput(cmd, gitArgs...); err != nil {
			return fmt.Errorf("git worktree add failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created worktree %s on branch %s\n", dir, branch)

		if !worktreeOpts.noCopyData {
			for _, file := range worktreeCopyFiles {
				src := filepath.Join(repoRoot, file)
				if _, err := os.Stat(src); err != nil {
					continue
				}
				if err := copyFile(src, filepath.Join(dir, file)); err != nil {
					return fmt.Errorf("failed to copy %s: %w", file, err)
				}
				fmt.Fprintf(out, "Copied %s\n", file)
			}
			for _, sub := range worktreeCopyDirs {
				src := filepath.Join(repoRoot, sub)
				if info, err := os.Stat(src); err != nil || !info.IsDir() {
					continue
				}
				if err := copyTree(src, filepath.Join(dir, sub)); err != nil {
					return fmt.Errorf("failed to copy %s/: %w", sub, err)
				}
				fmt.Fprintf(out, "Copied %s/\n", sub)
			}
		}

		fmt.Fprintf(out, "\n  cd %s\n", dir)
		return nil
	},
}

// worktreeFlags holds the flags for the worktree command
type worktreeFlags struct {
	base       string
	noCopyData bool
}

var worktreeOpts worktreeFlags

func init() {
	rootCmd.AddCommand(worktreeCmd)

	worktreeCmd.Flags().StringVar(&worktreeOpts.base, "base", "", "Base ref for the new branch (default: current HEAD)")
	worktreeCmd.Flags().BoolVar(&worktreeOpts.noCopyData, "no-copy-data", false, "Skip copying local state into the worktree")
}

// gitOutput runs a git command and returns its trimmed stdout.
func gitOutput(cmd *cobra.Command, args ...string) (string, error) {
	git := exec.CommandContext(cmd.Context(), "git", args...)
	out, err := git.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}
