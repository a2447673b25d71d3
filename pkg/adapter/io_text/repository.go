// 指示: miu200521358
package io_text

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_asfamc/pkg/adapter/io_common"
	"github.com/miu200521358/mu_asfamc/pkg/shared/logging"
	"github.com/miu200521358/mu_asfamc/pkg/usecase/port/moutput"
	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	extAsf           = ".asf"
	extAmc           = ".amc"
	extXz            = ".xz"
	outputDirMode    = 0o755
	outputFileMode   = 0o644
	maxTextSizeBytes = 256 << 20
)

// TextRepository はASF/AMCテキストの読み書きを表す。
type TextRepository struct {
	exts     []string
	maxBytes int64
}

// NewTextRepository はASF/AMCを扱う TextRepository を生成する。
func NewTextRepository() *TextRepository {
	return &TextRepository{exts: []string{extAsf, extAmc}, maxBytes: maxTextSizeBytes}
}

// NewTextRepositoryWithExts は拡張子を限定した TextRepository を生成する。
func NewTextRepositoryWithExts(exts ...string) *TextRepository {
	normalized := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return &TextRepository{exts: normalized, maxBytes: maxTextSizeBytes}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。.xz 圧縮も許可する。
func (r *TextRepository) CanLoad(path string) bool {
	ext := strings.ToLower(filepath.Ext(trimXzExt(path)))
	for _, allowed := range r.exts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// InferName はパスから表示名を推定する。
func (r *TextRepository) InferName(path string) string {
	base := filepath.Base(trimXzExt(path))
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Load はテキストを読み込み、BOMに応じて復号した文字列を返す。
func (r *TextRepository) Load(path string) (string, error) {
	if !r.CanLoad(path) {
		return "", io_common.NewIoExtInvalid(path, nil)
	}
	logTextInfo("テキスト読込開始: file=%s", filepath.Base(path))

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", io_common.NewIoFileNotFound(path, err)
		}
		return "", io_common.NewIoParseFailed("ファイルを開けませんでした: %s", err, path)
	}
	defer file.Close()

	var reader io.Reader = file
	if isXzPath(path) {
		xzReader, err := xz.NewReader(file)
		if err != nil {
			return "", io_common.NewIoParseFailed("xz展開に失敗しました: %s", err, path)
		}
		reader = xzReader
	}

	maxBytes := r.maxBytes
	if maxBytes <= 0 {
		maxBytes = maxTextSizeBytes
	}
	raw, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return "", io_common.NewIoParseFailed("ファイルの読み込みに失敗しました: %s", err, path)
	}
	if int64(len(raw)) > maxBytes {
		return "", io_common.NewIoFormatNotSupported("テキストサイズが上限(%dバイト)を超えています: %s", nil, maxBytes, path)
	}

	text, err := decodeText(bytes.NewReader(raw))
	if err != nil {
		return "", io_common.NewIoParseFailed("テキストの復号に失敗しました: %s", err, path)
	}
	if strings.ContainsRune(text, 0) {
		return "", io_common.NewIoFormatNotSupported("バイナリまたはBOMなしUTF-16は未対応です: %s", nil, path)
	}
	logTextInfo("テキスト読込完了: file=%s chars=%d", filepath.Base(path), len(text))
	return text, nil
}

// Save はテキストをUTF-8で保存する。.xz パスの場合は圧縮する。
func (r *TextRepository) Save(path string, text string, opts moutput.SaveOptions) error {
	if strings.TrimSpace(path) == "" {
		return io_common.NewIoParseFailed("保存先パスが未指定です", nil)
	}
	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return io_common.NewIoParseFailed("保存先ファイルが既に存在します: %s", nil, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), outputDirMode); err != nil {
		return io_common.NewIoParseFailed("保存先ディレクトリの作成に失敗しました: %s", err, path)
	}

	data := []byte(text)
	if isXzPath(path) {
		var buf bytes.Buffer
		writer, err := xz.NewWriter(&buf)
		if err != nil {
			return io_common.NewIoParseFailed("xz圧縮の準備に失敗しました: %s", err, path)
		}
		if _, err := writer.Write(data); err != nil {
			return io_common.NewIoParseFailed("xz圧縮に失敗しました: %s", err, path)
		}
		if err := writer.Close(); err != nil {
			return io_common.NewIoParseFailed("xz圧縮に失敗しました: %s", err, path)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, outputFileMode); err != nil {
		return io_common.NewIoParseFailed("ファイルの保存に失敗しました: %s", err, path)
	}
	logTextInfo("テキスト保存完了: file=%s bytes=%d", filepath.Base(path), len(data))
	return nil
}

// decodeText はBOMがあればUTF-16/UTF-8として、なければUTF-8として復号する。
func decodeText(reader io.Reader) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	b, err := io.ReadAll(transform.NewReader(reader, decoder))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// isXzPath は .xz 圧縮パスか判定する。
func isXzPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), extXz)
}

// trimXzExt は末尾の .xz を除いたパスを返す。
func trimXzExt(path string) string {
	if isXzPath(path) {
		return path[:len(path)-len(extXz)]
	}
	return path
}

// logTextInfo はテキスト入出力のINFOログを出力する。
func logTextInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}
