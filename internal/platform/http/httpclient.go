package http

import (
	"net"
	"net/http"
	"time"
)

// NewTransport は外部ストレージ（S3互換）呼び出し用に設定されたTransportを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConnsPerHost: 同一エンドポイントへの並列アップロード用に多めに確保
//   - ResponseHeaderTimeout: 応答ヘッダ待ちの上限（本体の転送時間は含まない）
//
// 注意:
//   - リクエスト全体の期限は呼び出し側の context で制御する
//   - アップロード本体は長くなり得るため Client.Timeout は使わない
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}
