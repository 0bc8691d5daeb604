package constants

const (
	SERVICE_NAME    = "artivio-chain"
	SERVICE_VERSION = "1.0.0"

	DEFAULT_TOKENS_LIMIT = 20
	MAX_PAGE_SIZE        = 100

	// MAX_UPLOAD_SIZE is the multipart body limit for file pinning, including form overhead
	MAX_UPLOAD_SIZE = 11 << 20
)
