package youtube

import "context"

// VideoIDPager walks a playlist one page at a time. It is not safe for concurrent use.
type VideoIDPager struct {
	client     *Client
	playlistID string
	pageToken  string
	done       bool
}

// Next returns the next page of video ids. Calling it after Done returns nil.
func (p *VideoIDPager) Next(ctx context.Context) ([]string, error) {
	if p.done {
		return nil, nil
	}
	ids, next, err := p.client.playlistPage(ctx, p.playlistID, p.pageToken)
	if err != nil {
		return nil, err
	}
	p.pageToken = next
	p.done = next == ""
	return ids, nil
}

// Done reports whether the last page has been read.
func (p *VideoIDPager) Done() bool { return p.done }

// Reset restarts the sequence from the first page.
func (p *VideoIDPager) Reset() {
	p.pageToken = ""
	p.done = false
}
