// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/relq/internal/keys"
	"github.com/staranto/relq/internal/output"
)

// GlobalFlagsValidator checks the positional args of a query command. Every
// arg must be a repository path.
func GlobalFlagsValidator(_ context.Context, c *cli.Command) error {
	for _, a := range c.Args().Slice() {
		if err := RepoValidator(a); err != nil {
			return fmt.Errorf("invalid repository %q: %w", a, err)
		}
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func PositiveValidator(value any) error {
	if value.(int) < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

// URLValidator requires an absolute http or https URL.
func URLValidator(value any) error {
	u, err := url.Parse(value.(string))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("must be an http or https URL")
	}
	return nil
}

// RepoValidator requires an owner/name style path. Nested groups are allowed.
func RepoValidator(value any) error {
	s := value.(string)
	parts := strings.Split(s, "/")
	if len(parts) < 2 {
		return errors.New("must be in owner/name form")
	}
	for _, p := range parts {
		if keys.Kebab(p) == "" {
			return errors.New("must be in owner/name form")
		}
	}
	return nil
}
