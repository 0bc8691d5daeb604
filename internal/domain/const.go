package domain

const (
	// Pinning constants
	DEFAULT_PINATA_API_URL     = "https://api.pinata.cloud"
	DEFAULT_PINATA_GATEWAY_URL = "https://gateway.pinata.cloud"
	IPFS_URL_PREFIX            = "ipfs://"

	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Royalty constants
	MAX_ROYALTY_BPS     = 10000
	DEFAULT_ROYALTY_BPS = 500

	// TOKEN_KIND_BITS is the width of the kind field in the low bits of a token id
	TOKEN_KIND_BITS = 16
	// SKU_BITS is the width of the sku field in the high bits of a token id
	SKU_BITS = 240

	// Mirror collections
	DEFAULT_TOKENS_COLLECTION     = "nft_tokens"
	DEFAULT_PROVENANCE_COLLECTION = "provenance_events"

	// License policies
	LICENSE_POLICY_OVERWRITE = "overwrite"
	LICENSE_POLICY_IMMUTABLE = "immutable"
)
