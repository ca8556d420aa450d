// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/heliaxdev/devnet-bot/lib/netutil"
)

// PageIterator lazily fetches pages of results from a paginated GitHub
// API endpoint. Each call to Next fetches the next page and returns
// its items; nil, nil means all pages have been consumed.
//
// Endpoints differ in page shape: newer list endpoints return a bare
// JSON array, while the Actions endpoints wrap the array in an
// envelope object ({"total_count": N, "artifacts": [...]}). The
// decodePage function owns that difference.
//
// The iterator is not safe for concurrent use.
type PageIterator[T any] struct {
	client     *Client
	nextURL    string
	done       bool
	decodePage func([]byte) ([]T, error)
}

// arrayPage decodes a bare JSON array page.
func arrayPage[T any](body []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("github: decoding page: %w", err)
	}
	return items, nil
}

// envelopePage decodes a page whose items sit under the given key of a
// wrapper object.
func envelopePage[T any](key string) func([]byte) ([]T, error) {
	return func(body []byte) ([]T, error) {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("github: decoding page envelope: %w", err)
		}
		raw, ok := envelope[key]
		if !ok {
			return nil, fmt.Errorf("github: page envelope has no %q field", key)
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("github: decoding %q page items: %w", key, err)
		}
		return items, nil
	}
}

// Next fetches the next page of results. Returns nil, nil when no more
// pages are available. Each page fetch is subject to rate limiting and
// authentication, same as any other API call.
func (iterator *PageIterator[T]) Next(ctx context.Context) ([]T, error) {
	if iterator.done || iterator.nextURL == "" {
		return nil, nil
	}

	response, err := iterator.client.doRaw(ctx, http.MethodGet, iterator.nextURL, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, parseAPIError(response)
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("github: reading page body: %w", err)
	}
	items, err := iterator.decodePage(body)
	if err != nil {
		return nil, err
	}

	// The Link header names the next page, if any.
	iterator.nextURL = parseLinkNext(response.Header.Get("Link"))
	if iterator.nextURL == "" {
		iterator.done = true
	}

	return items, nil
}

// Collect fetches all remaining pages and returns all items
// concatenated. Convenience for callers that walk the whole listing.
func (iterator *PageIterator[T]) Collect(ctx context.Context) ([]T, error) {
	var all []T
	for {
		items, err := iterator.Next(ctx)
		if err != nil {
			return all, err
		}
		if items == nil {
			return all, nil
		}
		all = append(all, items...)
	}
}

// parseLinkNext extracts the URL with rel="next" from an RFC 5988 Link
// header. Returns empty string if no next link is present.
//
// Format: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func parseLinkNext(header string) string {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)

		// Each part is: <url>; rel="type"
		segments := strings.SplitN(part, ";", 2)
		if len(segments) != 2 {
			continue
		}

		urlPart := strings.TrimSpace(segments[0])
		relPart := strings.TrimSpace(segments[1])

		if !strings.Contains(relPart, `rel="next"`) {
			continue
		}

		if strings.HasPrefix(urlPart, "<") && strings.HasSuffix(urlPart, ">") {
			return urlPart[1 : len(urlPart)-1]
		}
	}

	return ""
}
