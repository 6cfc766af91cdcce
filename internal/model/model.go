// Package model provides the shared types for ad content and wallet connection state.
package model

// ConnectionState describes the wallet connection as reported by the wallet source.
type ConnectionState struct {
	Connected bool   `json:"connected" yaml:"connected"`
	Address   string `json:"address,omitempty" yaml:"address,omitempty"`
}

// Ready reports whether the state carries enough to request ad content.
func (c ConnectionState) Ready() bool {
	return c.Connected && c.Address != ""
}

// AdContent is the ad payload returned by the ad server. Optional fields are
// empty when absent.
type AdContent struct {
	CampaignID string `json:"campaignId"`
	AdID       string `json:"adId"`
	Headline   string `json:"headline"`
	Content    string `json:"content"`
	ImageURL   string `json:"imageUrl,omitempty"`
	CTALabel   string `json:"ctaLabel,omitempty"`
	CTAURL     string `json:"ctaUrl,omitempty"`
}

// HasImage reports whether the ad carries an image reference.
func (c AdContent) HasImage() bool {
	return c.ImageURL != ""
}

// HasCTA reports whether the ad carries a complete call to action.
func (c AdContent) HasCTA() bool {
	return c.CTALabel != "" && c.CTAURL != ""
}
