// Copyright 2026 cloudmorph LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package github fetches templates from GitHub repositories. Locations
// have the form "github://owner/repo@ref/path/to/template.yaml"; the
// ref is optional and defaults to the repository's default branch.
package github

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"

	"github.com/cloudmorph/cloudmorph/pkg/source"
)

func init() {
	source.Register("github", New)
}

// 🎯 Source implements the source interface for GitHub. GitHub is
// read-only; it never acts as a sink.
type Source struct {
	client      *github.Client
	owner, repo string
	ref, path   string
	location    string
}

// 🏭 New creates a GitHub source for a location. A GITHUB_TOKEN
// environment variable is used when present; public repositories work
// without one.
func New(ctx context.Context, location string) (source.Source, source.Sink, error) {
	owner, repo, ref, path, err := parseLocation(location)
	if err != nil {
		return nil, nil, err
	}

	httpClient := oauth2.NewClient(ctx, nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		zerolog.Ctx(ctx).Debug().Msg("GITHUB_TOKEN not set, using unauthenticated client")
	}

	return &Source{
		client:   github.NewClient(httpClient),
		owner:    owner,
		repo:     repo,
		ref:      ref,
		path:     path,
		location: location,
	}, nil, nil
}

// 🔍 parseLocation parses "owner/repo@ref/path" (scheme already
// stripped).
func parseLocation(location string) (owner, repo, ref, path string, err error) {
	parts := strings.SplitN(location, "/", 3)
	if len(parts) < 3 {
		return "", "", "", "", errors.Errorf("invalid github location %q, want owner/repo[@ref]/path", location)
	}
	owner, repo, path = parts[0], parts[1], parts[2]
	if at := strings.IndexByte(repo, '@'); at >= 0 {
		repo, ref = repo[:at], repo[at+1:]
	}
	if owner == "" || repo == "" || path == "" {
		return "", "", "", "", errors.Errorf("invalid github location %q, want owner/repo[@ref]/path", location)
	}
	return owner, repo, ref, path, nil
}

// 📝 Name returns the location's display name.
func (s *Source) Name() string {
	return s.path
}

// 📄 Fetch retrieves the template contents.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	zerolog.Ctx(ctx).Debug().
		Str("owner", s.owner).
		Str("repo", s.repo).
		Str("path", s.path).
		Msg("fetching template from github")

	rc, _, err := s.client.Repositories.DownloadContents(ctx, s.owner, s.repo, s.path, &github.RepositoryContentGetOptions{
		Ref: s.ref,
	})
	if err != nil {
		return nil, errors.Errorf("downloading %s from github.com/%s/%s: %w", s.path, s.owner, s.repo, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Errorf("reading github content: %w", err)
	}
	return data, nil
}
