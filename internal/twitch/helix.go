package twitch

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

type searchResponse struct {
	Data []struct {
		ID               string `json:"id"`
		BroadcasterLogin string `json:"broadcaster_login"`
		DisplayName      string `json:"display_name"`
		IsLive           bool   `json:"is_live"`
	} `json:"data"`
}

type usersResponse struct {
	Data []struct {
		ID              string `json:"id"`
		Login           string `json:"login"`
		DisplayName     string `json:"display_name"`
		ProfileImageURL string `json:"profile_image_url"`
	} `json:"data"`
}

// SearchChannels returns up to ten channels matching query. Profile images
// come from a second users lookup; if that lookup fails the channels are
// returned without images.
func (c *Client) SearchChannels(ctx context.Context, creds Credentials, query string) ([]Channel, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("first", strconv.Itoa(searchLimit))

	var sr searchResponse
	if err := c.get(ctx, creds, "/search/channels", q, &sr); err != nil {
		return nil, err
	}

	out := make([]Channel, 0, len(sr.Data))
	if len(sr.Data) == 0 {
		return out, nil
	}

	uq := url.Values{}
	for _, ch := range sr.Data {
		uq.Add("id", ch.ID)
	}
	images := map[string]string{}
	var ur usersResponse
	if err := c.get(ctx, creds, "/users", uq, &ur); err == nil {
		for _, u := range ur.Data {
			images[u.ID] = u.ProfileImageURL
		}
	}

	for _, ch := range sr.Data {
		out = append(out, Channel{
			ID:              ch.ID,
			Login:           ch.BroadcasterLogin,
			DisplayName:     ch.DisplayName,
			IsLive:          ch.IsLive,
			ProfileImageURL: images[ch.ID],
		})
	}
	return out, nil
}

// ValidateUsernames reports which of names exist on Twitch. The result is
// keyed by lower-case login. Names are queried in batches of 100.
func (c *Client) ValidateUsernames(ctx context.Context, creds Credentials, names []string) (map[string]bool, error) {
	valid := make(map[string]bool, len(names))

	logins := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(n), "@"))
		if n != "" {
			logins = append(logins, n)
		}
	}

	for start := 0; start < len(logins); start += maxLoginsPerRequest {
		end := min(start+maxLoginsPerRequest, len(logins))
		q := url.Values{}
		for _, l := range logins[start:end] {
			q.Add("login", l)
		}
		var ur usersResponse
		if err := c.get(ctx, creds, "/users", q, &ur); err != nil {
			return nil, err
		}
		for _, u := range ur.Data {
			valid[strings.ToLower(u.Login)] = true
		}
	}
	return valid, nil
}
