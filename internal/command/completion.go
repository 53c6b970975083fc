// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/relq/internal/meta"
)

const bashCompletionScript = `# bash completion for relq
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_relq()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "rq tq ri lq cache completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t"
    local query="$common --schema --api --all --parallel -p --refresh -r --token"

    case "$cmd" in
        rq|tq|ri)
            local opts="$query"
            ;;
        lq)
            local opts="$query --tags"
            ;;
        cache)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "ls purge path" -- "$cur") )
                return 0
            fi
            local opts="$common --hours --schema"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    fi
    return 0
}

complete -F _relq relq
`

const zshCompletionScript = `#compdef relq

_relq() {
  local -a cmds
  cmds=(
    'rq:release query'
    'tq:tag query'
    'ri:release info for a single tag'
    'lq:latest version query'
    'cache:inspect and clean the response cache'
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
  )

  local -a query
  query=(
  '--schema[dump schema]'
  '--api[release API base URL]:url'
  '--all[follow every page]'
  '(-p --parallel)'{-p,--parallel}'[concurrent lookups]:count'
  '(-r --refresh)'{-r,--refresh}'[ignore cached answers]'
  '--token[API bearer token]:token'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'relq commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    rq|tq)
      _arguments -C $common $query '*:repository'
      ;;
    ri)
      _arguments -C $common $query '1:repository' '2:tag'
      ;;
    lq)
      _arguments -C $common $query '--tags[use tags]' '*:repository'
      ;;
    cache)
      _arguments '1: :((ls purge path))' '--hours[age in hours]:hours'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _relq relq
`

var errUnknownShell = errors.New("usage: relq completion [bash|zsh]")

func CompletionCommandAction(_ context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		// Try to detect from SHELL.
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
		fmt.Fprint(writer(cmd), bashCompletionScript)
	case "zsh":
		fmt.Fprint(writer(cmd), zshCompletionScript)
	default:
		return errUnknownShell
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "relq completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
