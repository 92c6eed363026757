package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ModerationNotifier pings the external moderation tool whenever a new review
// needs screening. The tool reports its decision back through the moderation
// endpoint; nothing here blocks review creation.
type ModerationNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewModerationNotifier(webhookURL string) *ModerationNotifier {
	return &ModerationNotifier{
		webhookURL: webhookURL,
		client:     newHTTPClient(),
	}
}

// Notify posts the identifiers the moderation tool needs to pick up a review.
func (n *ModerationNotifier) Notify(reviewID int64, bookingID string, guideID int64) error {
	payload := map[string]interface{}{
		"review_id":  reviewID,
		"booking_id": bookingID,
		"guide_id":   guideID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("moderation webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          25,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		CheckRedirect: redirectPolicyFunc,
	}
}

func redirectPolicyFunc(req *http.Request, via []*http.Request) error {
	if len(via) >= 2 {
		return fmt.Errorf("attempted redirect to %s", req.URL)
	}
	return nil
}
