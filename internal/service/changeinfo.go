package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChangeInfo is one before/after entry from the license-changes API.
type ChangeInfo struct {
	Before     string `json:"before"`
	After      string `json:"after"`
	ChangeDate string `json:"change_date"`
}

// ChangeClient queries the government license-changes endpoint
// (I2861) with a session's bound API key. The collaborator is
// best-effort: any non-200 response, transport failure or unparsable
// body yields "no data", never a hard error.
type ChangeClient struct {
	baseURL string
	client  *http.Client
}

func NewChangeClient(baseURL string, timeout time.Duration) *ChangeClient {
	return &ChangeClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type changeRow struct {
	Before string `xml:"CHNG_BF_CN"`
	After  string `xml:"CHNG_AF_CN"`
	Date   string `xml:"CHNG_DT"`
}

type changeDocument struct {
	Rows []changeRow `xml:"row"`
}

// Fetch returns the change history for a license number, or nil when
// the collaborator has nothing usable.
func (c *ChangeClient) Fetch(ctx context.Context, apiKey, licenseNo string) []ChangeInfo {
	url := fmt.Sprintf("%s/api/%s/I2861/xml/1/500/LCNS_NO=%s", c.baseURL, apiKey, licenseNo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	var doc changeDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil
	}

	results := make([]ChangeInfo, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		results = append(results, ChangeInfo{
			Before:     strings.TrimSpace(row.Before),
			After:      strings.TrimSpace(row.After),
			ChangeDate: formatChangeDate(strings.TrimSpace(row.Date)),
		})
	}
	return results
}

// formatChangeDate turns the upstream 8-digit date into YYYY-MM-DD;
// anything else passes through untouched.
func formatChangeDate(d string) string {
	if len(d) == 8 {
		return d[:4] + "-" + d[4:6] + "-" + d[6:]
	}
	return d
}
