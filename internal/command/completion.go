// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/dexctl/internal/meta"
)

const bashCompletionScript = `# bash completion for dexctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_dexctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "lq gq tq dq eq fq cq browse completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --padding --schema --tldr --base-url --metrics"

    case "$cmd" in
        lq)
            local opts="$common --search -q --limit -l"
            ;;
        gq)
            local opts="$common --types --concurrency --limit -l"
            ;;
        tq)
            local opts="$common --concurrency --limit -l"
            ;;
        dq|eq)
            local opts="$common --concurrency"
            ;;
        fq)
            local opts="$common"
            ;;
        cq)
            local opts="$common --path -p"
            ;;
        browse)
            local opts="--base-url --metrics --limit -l --concurrency --color -c --sort-by --order --tldr"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --sort-by)
            COMPREPLY=( $(compgen -W "id name" -- "$cur") )
            return 0
            ;;
        --order)
            COMPREPLY=( $(compgen -W "asc desc" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    fi
    return 0
}

complete -F _dexctl dexctl
`

const zshCompletionScript = `#compdef dexctl

_dexctl() {
  local -a cmds
  cmds=(
    'lq:list query'
    'gq:gallery query'
    'tq:type query'
    'dq:detail query'
    'eq:evolution query'
    'fq:find query'
    'cq:compare query'
    'browse:interactive catalog browser'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--padding[extra column spaces]:padding'
  '--schema[dump schema]'
  '--tldr[show tldr page]'
  '--base-url[catalog API root]:url'
  '--metrics[print metrics on exit]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'dexctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    lq)
      _arguments -C \
        $common \
        '(-q --search)'{-q,--search}'[name substring]:search' \
        '(-l --limit)'{-l,--limit}'[entries to read]:limit'
      ;;
    gq)
      _arguments -C \
        $common \
        '--types[required types]:types' \
        '--concurrency[simultaneous requests]:concurrency' \
        '(-l --limit)'{-l,--limit}'[entries to read]:limit'
      ;;
    tq)
      _arguments -C \
        $common \
        '--concurrency[simultaneous requests]:concurrency' \
        '(-l --limit)'{-l,--limit}'[entries to read]:limit'
      ;;
    dq|eq)
      _arguments -C \
        $common \
        '--concurrency[simultaneous requests]:concurrency' \
        '1:id or name'
      ;;
    fq)
      _arguments -C \
        $common \
        '1:name or id'
      ;;
    cq)
      _arguments -C \
        $common \
        '(-p --path)'{-p,--path}'[compare only this path]:path' \
        '1:id or name' \
        '2:id or name'
      ;;
    browse)
      _arguments -C \
        '--base-url[catalog API root]:url' \
        '--metrics[print metrics on exit]' \
        '(-l --limit)'{-l,--limit}'[entries to read]:limit' \
        '--concurrency[simultaneous requests]:concurrency' \
        '(-c --color)'{-c,--color}'[color type badges]' \
        '--sort-by[initial sort field]:field:(id name)' \
        '--order[initial sort order]:order:(asc desc)' \
        '--tldr[show tldr page]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _dexctl dexctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Fall back to the login shell.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(stdout, zshCompletionScript)
	default:
		fmt.Fprintln(stderr, "usage: dexctl completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "dexctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
