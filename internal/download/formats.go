package download

import (
	"context"
	"encoding/json"
	"fmt"
)

// Format is one downloadable rendition offered by the source
type Format struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Resolution string `json:"resolution"`
	Filesize   int64  `json:"filesize,omitempty"`
	FormatNote string `json:"format_note,omitempty"`
	VCodec     string `json:"vcodec,omitempty"`
	ACodec     string `json:"acodec,omitempty"`
}

type videoInfo struct {
	URL            string       `json:"url"`
	FormatID       string       `json:"format_id"`
	Ext            string       `json:"ext"`
	Resolution     string       `json:"resolution"`
	Filesize       int64        `json:"filesize"`
	FilesizeApprox int64        `json:"filesize_approx"`
	Format         string       `json:"format"`
	VCodec         string       `json:"vcodec"`
	ACodec         string       `json:"acodec"`
	Formats        []infoFormat `json:"formats"`
}

type infoFormat struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Resolution string `json:"resolution"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Filesize   int64  `json:"filesize"`
	FormatNote string `json:"format_note"`
	VCodec     string `json:"vcodec"`
	ACodec     string `json:"acodec"`
}

// FetchFormats asks yt-dlp for the available formats of url
func (m *Manager) FetchFormats(ctx context.Context, url, cookiesFromBrowser string) ([]Format, error) {
	if !ValidateURL(url) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}

	args := []string{
		url,
		"--dump-single-json",
		"--no-playlist",
		"--extractor-args", extractorArgs,
		"--no-check-certificates",
	}
	if cookiesFromBrowser != "" && cookiesFromBrowser != "none" {
		args = append(args, "--cookies-from-browser", cookiesFromBrowser)
	}

	out, err := m.command(ctx, m.binary, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch formats: %w", err)
	}
	return parseFormats(out)
}

// parseFormats turns yt-dlp's JSON info into formats, dropping entries that
// carry neither video nor audio.
func parseFormats(data []byte) ([]Format, error) {
	var info videoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}

	if len(info.Formats) == 0 {
		if info.URL == "" {
			return []Format{}, nil
		}
		// Direct video URL, a single implicit format
		f := Format{
			FormatID:   orDefault(info.FormatID, "0"),
			Ext:        orDefault(info.Ext, "mp4"),
			Resolution: orDefault(info.Resolution, "unknown"),
			Filesize:   info.Filesize,
			FormatNote: orDefault(info.Format, "direct"),
			VCodec:     info.VCodec,
			ACodec:     info.ACodec,
		}
		if f.Filesize == 0 {
			f.Filesize = info.FilesizeApprox
		}
		return []Format{f}, nil
	}

	formats := make([]Format, 0, len(info.Formats))
	for _, f := range info.Formats {
		if f.VCodec == "none" && f.ACodec == "none" {
			continue
		}
		resolution := f.Resolution
		if resolution == "" {
			resolution = fmt.Sprintf("%dx%d", f.Width, f.Height)
		}
		formats = append(formats, Format{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: resolution,
			Filesize:   f.Filesize,
			FormatNote: f.FormatNote,
			VCodec:     f.VCodec,
			ACodec:     f.ACodec,
		})
	}
	return formats, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
