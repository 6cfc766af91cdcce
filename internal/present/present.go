// Package present maps fetch states to display payloads.
package present

import (
	"strings"

	"adview/internal/config"
	"adview/internal/model"
)

// Kind identifies which view a state renders as.
type Kind string

const (
	KindPrompt  Kind = "prompt"
	KindLoading Kind = "loading"
	KindError   Kind = "error"
	KindEmpty   Kind = "empty"
	KindContent Kind = "content"
)

// View copy shown for the non-content states.
const (
	PromptTitle    = "Connect Your Wallet"
	PromptMessage  = "Please connect your wallet to view personalized ad content"
	LoadingTitle   = "Loading Content"
	LoadingMessage = "Please wait while we fetch your personalized ad content"
	ErrorTitle     = "Error"
	EmptyMessage   = "No ad content found for user"
)

// Image is the optional image block of a content view.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// CTA is the optional call-to-action block of a content view.
type CTA struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// View is the display payload for one FetchState.
type View struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Headline   string `json:"headline,omitempty"`
	Body       string `json:"body,omitempty"`
	CampaignID string `json:"campaignId,omitempty"`
	AdID       string `json:"adId,omitempty"`
	Image      *Image `json:"image,omitempty"`
	CTA        *CTA   `json:"cta,omitempty"`
}

// Mapper turns FetchStates into Views.
type Mapper struct {
	assetsBaseURL string
}

// New returns a Mapper that resolves image references against assetsBaseURL.
// An empty base falls back to the public asset host.
func New(assetsBaseURL string) Mapper {
	if assetsBaseURL == "" {
		assetsBaseURL = config.DefaultAssetsURL
	}
	return Mapper{assetsBaseURL: assetsBaseURL}
}

// Map returns the view for s.
func (m Mapper) Map(s model.FetchState) View {
	switch s := s.(type) {
	case model.Loading:
		return View{Kind: KindLoading, Title: LoadingTitle, Message: LoadingMessage}
	case model.Failed:
		return View{Kind: KindError, Title: ErrorTitle, Message: s.Message}
	case model.Loaded:
		if s.Content == nil {
			return View{Kind: KindEmpty, Message: EmptyMessage}
		}
		return m.content(*s.Content)
	default:
		return View{Kind: KindPrompt, Title: PromptTitle, Message: PromptMessage}
	}
}

func (m Mapper) content(c model.AdContent) View {
	v := View{
		Kind:       KindContent,
		Headline:   c.Headline,
		Body:       c.Content,
		CampaignID: c.CampaignID,
		AdID:       c.AdID,
	}
	if c.HasImage() {
		v.Image = &Image{URL: ImageURL(m.assetsBaseURL, c.ImageURL), Alt: c.Headline}
	}
	if c.HasCTA() {
		v.CTA = &CTA{Label: c.CTALabel, URL: c.CTAURL}
	}
	return v
}

// ImageURL joins an image reference onto the asset base URL.
func ImageURL(base, ref string) string {
	return strings.TrimRight(base, "/") + "/" + ref
}
