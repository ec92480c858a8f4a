package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/platformtwin"
)

func newTwin(t *testing.T) (*Client, *httptest.Server, *platformtwin.Store) {
	t.Helper()
	store := platformtwin.NewStore(7)
	srv := httptest.NewServer(platformtwin.NewRouter(store, nil))
	t.Cleanup(srv.Close)
	return New(srv.URL+platformtwin.APIPrefix, 2*time.Second, nil), srv, store
}

func failPath(t *testing.T, srv *httptest.Server, path, mode string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"path": path, "mode": mode})
	resp, err := http.Post(srv.URL+"/admin/fail", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
}

func TestUserAndPoints(t *testing.T) {
	c, _, _ := newTwin(t)
	ctx := context.Background()

	if err := c.AwardPoints(ctx, platformtwin.DemoUserID, PointsRequest{Points: 20, Activity: "pdf_download", Description: "Downloaded guide"}); err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}
	u, err := c.User(ctx, platformtwin.DemoUserID)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if u.Points != 2470 {
		t.Errorf("points = %d, want 2470", u.Points)
	}
}

func TestEnvelopedEndpoints(t *testing.T) {
	c, _, _ := newTwin(t)
	ctx := context.Background()

	feed, err := c.LiveActivity(ctx)
	if err != nil {
		t.Fatalf("LiveActivity: %v", err)
	}
	if len(feed.Activities) == 0 {
		t.Error("expected activities")
	}

	offer, err := c.LimitedOffer(ctx)
	if err != nil {
		t.Fatalf("LimitedOffer: %v", err)
	}
	if offer.ExpiresInMinutes <= 0 {
		t.Errorf("expires_in_minutes = %d", offer.ExpiresInMinutes)
	}

	reward, err := c.RandomReward(ctx)
	if err != nil {
		t.Fatalf("RandomReward: %v", err)
	}
	if reward.Rarity == "" || reward.Type == "" {
		t.Errorf("incomplete reward %+v", reward)
	}

	access, err := c.ExclusiveAccess(ctx, "")
	if err != nil {
		t.Fatalf("ExclusiveAccess: %v", err)
	}
	if access.CurrentTier != "novice" {
		t.Errorf("tier = %q, want novice", access.CurrentTier)
	}
}

func TestFailuresMapToNoData(t *testing.T) {
	tests := []struct {
		name string
		path string
		mode string
		call func(*Client) error
	}{
		{"status on enveloped", "/social/urgency-metrics", platformtwin.FailStatus, func(c *Client) error {
			_, err := c.UrgencyMetrics(context.Background())
			return err
		}},
		{"success false on enveloped", "/addiction/milestone-progress", platformtwin.FailEnvelope, func(c *Client) error {
			_, err := c.Milestones(context.Background())
			return err
		}},
		{"success false on plain", "/stats", platformtwin.FailEnvelope, func(c *Client) error {
			_, err := c.Stats(context.Background())
			return err
		}},
		{"status on points", "/user/demo_user/points", platformtwin.FailStatus, func(c *Client) error {
			return c.AwardPoints(context.Background(), "demo_user", PointsRequest{Points: 1})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv, _ := newTwin(t)
			failPath(t, srv, tt.path, tt.mode)
			if err := tt.call(c); !errors.Is(err, ErrNoData) {
				t.Errorf("err = %v, want ErrNoData", err)
			}
		})
	}
}

func TestDownloadGuide(t *testing.T) {
	c, _, _ := newTwin(t)

	doc, err := c.DownloadGuide(context.Background(), "empowerment-guide", GuideRequest{UserName: "Ana"})
	if err != nil {
		t.Fatalf("DownloadGuide: %v", err)
	}
	if doc.ContentType != "application/pdf" {
		t.Errorf("content type = %q", doc.ContentType)
	}
	if !bytes.HasPrefix(doc.Data, []byte("%PDF")) {
		t.Errorf("unexpected document prefix %q", doc.Data[:8])
	}
}

func TestOversizedBodyIsRejected(t *testing.T) {
	c, _, _ := newTwin(t)
	full, err := c.DownloadGuide(context.Background(), "empowerment-guide", GuideRequest{UserName: "Ana"})
	if err != nil {
		t.Fatalf("DownloadGuide: %v", err)
	}

	tests := []struct {
		name    string
		limit   int64
		wantErr bool
	}{
		{"exactly at limit", int64(len(full.Data)), false},
		{"one byte over", int64(len(full.Data)) - 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.maxBody = tt.limit
			doc, err := c.DownloadGuide(context.Background(), "empowerment-guide", GuideRequest{UserName: "Ana"})
			if tt.wantErr {
				if !errors.Is(err, ErrBodyTooLarge) {
					t.Fatalf("err = %v, want ErrBodyTooLarge", err)
				}
				if doc != nil {
					t.Error("truncated document returned")
				}
				return
			}
			if err != nil {
				t.Fatalf("DownloadGuide: %v", err)
			}
			if !bytes.Equal(doc.Data, full.Data) {
				t.Error("document changed under the limit")
			}
		})
	}
}

func TestTransportErrorIsNotNoData(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base, time.Second, nil)
	_, err := c.Stats(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNoData) {
		t.Error("transport failure should not be reported as ErrNoData")
	}
}

func TestContextCancelAborts(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c := New(srv.URL, 5*time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Testimonials(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("request was not aborted")
	}
}
