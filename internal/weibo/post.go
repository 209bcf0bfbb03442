package weibo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
)

// PictureField is the multipart field an attached image is uploaded under.
const PictureField = "pic"

// PostStatus publishes a status. A nil img posts plain text to the update
// endpoint; otherwise the image is PNG-encoded and uploaded together with the
// text. Length and size limits are left to the server.
func (c *Client) PostStatus(ctx context.Context, acct *Account, text string, img image.Image) (Dict, error) {
	params := url.Values{"status": {text}}

	if img == nil {
		return c.tokenRequest(ctx, acct, http.MethodPost, EndpointUpdate, c.cfg.Endpoints.Update, params, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode picture: %w", err)
	}
	att := &attachment{
		field:    PictureField,
		filename: PictureField + ".png",
		data:     buf.Bytes(),
	}
	return c.tokenRequest(ctx, acct, http.MethodPost, EndpointUpload, c.cfg.Endpoints.Upload, params, att)
}
