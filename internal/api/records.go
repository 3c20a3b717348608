package api

import (
	"context"
	"net/http"

	"wave-client/internal/models"
)

// identityRead is a GET or DELETE attributed by token, or by deviceId without one.
func identityRead(method, route, deviceID, token string) call {
	return call{
		method:   method,
		route:    []string{route},
		json:     true,
		token:    token,
		identity: true,
		deviceID: deviceID,
	}
}

// MoodList lists mood entries for the token's user, or for deviceID when token is empty.
func (c *Client) MoodList(ctx context.Context, deviceID, token string) (*models.MoodList, error) {
	var out models.MoodList
	if err := c.into(ctx, identityRead(http.MethodGet, "mood", deviceID, token), &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []models.MoodItem{}
	}
	return &out, nil
}

// MoodAdd records a mood entry.
func (c *Client) MoodAdd(ctx context.Context, entry models.MoodEntry, token string) (models.Object, error) {
	return c.object(ctx, post([]string{"mood"}, entry, token))
}

// MoodDeleteAll removes every mood entry of the user or device.
func (c *Client) MoodDeleteAll(ctx context.Context, deviceID, token string) (models.Object, error) {
	return c.object(ctx, identityRead(http.MethodDelete, "mood", deviceID, token))
}

// JournalList lists journal entries for the token's user, or for deviceID when token is empty.
func (c *Client) JournalList(ctx context.Context, deviceID, token string) (*models.JournalList, error) {
	var out models.JournalList
	if err := c.into(ctx, identityRead(http.MethodGet, "journal", deviceID, token), &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []models.JournalItem{}
	}
	return &out, nil
}

// JournalAdd records a journal entry.
func (c *Client) JournalAdd(ctx context.Context, entry models.JournalEntry, token string) (models.Object, error) {
	return c.object(ctx, post([]string{"journal"}, entry, token))
}

// JournalDeleteAll removes every journal entry of the user or device.
func (c *Client) JournalDeleteAll(ctx context.Context, deviceID, token string) (models.Object, error) {
	return c.object(ctx, identityRead(http.MethodDelete, "journal", deviceID, token))
}

// Pulse fetches the community pulse.
func (c *Client) Pulse(ctx context.Context) (models.Object, error) {
	return c.object(ctx, call{method: http.MethodGet, route: []string{"pulse"}})
}

type reflectBody struct {
	LatestJournal string `json:"latestJournal"`
	Mood          int    `json:"mood"`
}

// Reflect asks for a reflection on the latest journal text and mood.
func (c *Client) Reflect(ctx context.Context, latestJournal string, mood int) (models.Object, error) {
	return c.object(ctx, post([]string{"ar"}, reflectBody{LatestJournal: latestJournal, Mood: mood}, ""))
}

type claimBody struct {
	DeviceID string `json:"deviceId"`
}

// Claim moves the device's anonymous records to the signed-in account.
func (c *Client) Claim(ctx context.Context, deviceID, token string) (models.Object, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	return c.object(ctx, post([]string{"auth", "claim"}, claimBody{DeviceID: deviceID}, token))
}
