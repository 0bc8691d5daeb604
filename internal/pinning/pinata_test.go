package pinning_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/domain"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/mocks"
	"github.com/artivio/artivio-chain/internal/pinning"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	m.Run()
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type pinningMocks struct {
	http   *mocks.MockHTTPClient
	client pinning.Client
}

func setupPinning(t *testing.T) *pinningMocks {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(fixedNow).AnyTimes()

	return &pinningMocks{
		http: httpClient,
		client: pinning.NewPinataClient(pinning.Config{
			JWT:        "test-jwt",
			GatewayURL: "https://artivio.mypinata.cloud/",
		}, httpClient, adapter.NewJSON(), clock),
	}
}

type pinJSONBody struct {
	PinataContent  json.RawMessage `json:"pinataContent"`
	PinataMetadata struct {
		Name      string            `json:"name"`
		KeyValues map[string]string `json:"keyvalues"`
	} `json:"pinataMetadata"`
}

func TestUploadJSON(t *testing.T) {
	m := setupPinning(t)

	var sent pinJSONBody
	m.http.EXPECT().
		Post(gomock.Any(), "https://api.pinata.cloud/pinning/pinJSONToIPFS", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, headers http.Header, body []byte) ([]byte, error) {
			assert.Equal(t, "Bearer test-jwt", headers.Get("Authorization"))
			assert.Equal(t, "application/json", headers.Get("Content-Type"))
			require.NoError(t, json.Unmarshal(body, &sent))
			return []byte(`{"IpfsHash":"bafyjson","PinSize":42}`), nil
		})

	result, err := m.client.UploadJSON(context.Background(), map[string]interface{}{"b": 2, "a": 1}, "")
	require.NoError(t, err)
	assert.Equal(t, "bafyjson", result.CID)
	assert.Equal(t, "ipfs://bafyjson", result.IPFSURL)
	assert.Equal(t, "https://artivio.mypinata.cloud/ipfs/bafyjson", result.GatewayURL)

	// canonical form orders keys
	assert.Equal(t, `{"a":1,"b":2}`, string(sent.PinataContent))
	assert.Equal(t, "data.json", sent.PinataMetadata.Name)
	assert.Equal(t, "2026-03-01T12:00:00Z", sent.PinataMetadata.KeyValues["uploadedAt"])
}

func TestUploadJSON_Failures(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		m := setupPinning(t)
		_, err := m.client.UploadJSON(context.Background(), nil, "x.json")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("pinata rejects", func(t *testing.T) {
		m := setupPinning(t)
		m.http.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, &adapter.StatusError{StatusCode: http.StatusUnauthorized, Body: "bad jwt"})

		_, err := m.client.UploadJSON(context.Background(), map[string]string{"a": "b"}, "x.json")
		assert.ErrorIs(t, err, domain.ErrPinningFailed)
		var statusErr *adapter.StatusError
		assert.ErrorAs(t, err, &statusErr)
	})

	t.Run("response without hash", func(t *testing.T) {
		m := setupPinning(t)
		m.http.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte(`{}`), nil)

		_, err := m.client.UploadJSON(context.Background(), map[string]string{"a": "b"}, "x.json")
		assert.ErrorIs(t, err, domain.ErrPinningFailed)
	})
}

func TestUploadFile(t *testing.T) {
	m := setupPinning(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	m.http.EXPECT().
		Post(gomock.Any(), "https://api.pinata.cloud/pinning/pinFileToIPFS", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, headers http.Header, body []byte) ([]byte, error) {
			mediaType, params, err := mime.ParseMediaType(headers.Get("Content-Type"))
			require.NoError(t, err)
			assert.Equal(t, "multipart/form-data", mediaType)

			reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
			part, err := reader.NextPart()
			require.NoError(t, err)
			assert.Equal(t, "file", part.FormName())
			assert.Equal(t, "vase.png", part.FileName())
			assert.Equal(t, "image/png", part.Header.Get("Content-Type"))
			content, err := io.ReadAll(part)
			require.NoError(t, err)
			assert.Equal(t, png, content)

			part, err = reader.NextPart()
			require.NoError(t, err)
			assert.Equal(t, "pinataMetadata", part.FormName())
			meta, err := io.ReadAll(part)
			require.NoError(t, err)
			assert.Contains(t, string(meta), `"name":"vase.png"`)

			return []byte(`{"IpfsHash":"bafyfile"}`), nil
		})

	result, err := m.client.UploadFile(context.Background(), "vase.png", png)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://bafyfile", result.IPFSURL)
}

func TestUploadFile_Validation(t *testing.T) {
	m := setupPinning(t)

	_, err := m.client.UploadFile(context.Background(), "empty.bin", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = m.client.UploadFile(context.Background(), "huge.bin", make([]byte, pinning.MaxFileSize+1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUploadNFTMetadata(t *testing.T) {
	m := setupPinning(t)

	var sent pinJSONBody
	m.http.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ http.Header, body []byte) ([]byte, error) {
			require.NoError(t, json.Unmarshal(body, &sent))
			return []byte(`{"IpfsHash":"bafymeta"}`), nil
		})

	result, err := m.client.UploadNFTMetadata(context.Background(), pinning.NFTMetadataInput{
		Name:        "Black Clay Vase",
		Description: "Hand burnished barro negro",
		ImageCID:    "bafyimage",
		Attributes:  []pinning.Attribute{{TraitType: "Material", Value: "clay"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "bafymeta", result.CID)
	assert.Equal(t, "Black_Clay_Vase_metadata.json", sent.PinataMetadata.Name)

	var metadata pinning.NFTMetadata
	require.NoError(t, json.Unmarshal(sent.PinataContent, &metadata))
	assert.Equal(t, "ipfs://bafyimage", metadata.Image)
	assert.Equal(t, "See license.", metadata.RightsNotice)
	assert.Equal(t, "", metadata.ExternalURL)
	assert.Len(t, metadata.Attributes, 1)
	assert.NotNil(t, metadata.License)
	assert.NotNil(t, metadata.Provenance)
}

func TestUploadNFTMetadata_RequiresFields(t *testing.T) {
	m := setupPinning(t)

	_, err := m.client.UploadNFTMetadata(context.Background(), pinning.NFTMetadataInput{ImageCID: "bafy"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = m.client.UploadNFTMetadata(context.Background(), pinning.NFTMetadataInput{Name: "Vase"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildNFTMetadata_KeepsIPFSPrefixOnce(t *testing.T) {
	metadata := pinning.BuildNFTMetadata(pinning.NFTMetadataInput{Name: "x", ImageCID: "ipfs://bafyimage"})
	assert.Equal(t, "ipfs://bafyimage", metadata.Image)
	assert.Empty(t, metadata.Attributes)
}

func TestBuildLicenseDocument(t *testing.T) {
	doc := pinning.BuildLicenseDocument(pinning.LicenseInput{})
	assert.Equal(t, "reproduction-limited", doc.Type)
	assert.Equal(t, "personal", doc.Scope)
	assert.Equal(t, "worldwide", doc.Territory)
	assert.Equal(t, "perpetual", doc.Term)
	assert.True(t, doc.Attribution)
	assert.False(t, doc.CommercialUse)
	assert.False(t, doc.Modifications)
	assert.NotNil(t, doc.ResaleConditions)

	noAttribution := false
	doc = pinning.BuildLicenseDocument(pinning.LicenseInput{Type: "commercial", Attribution: &noAttribution, CommercialUse: true})
	assert.Equal(t, "commercial", doc.Type)
	assert.False(t, doc.Attribution)
	assert.True(t, doc.CommercialUse)
}

func TestUploadLicense(t *testing.T) {
	m := setupPinning(t)
	editions := 25

	m.http.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ http.Header, body []byte) ([]byte, error) {
			var sent pinJSONBody
			require.NoError(t, json.Unmarshal(body, &sent))
			assert.Equal(t, "license.json", sent.PinataMetadata.Name)
			assert.Contains(t, string(sent.PinataContent), `"territory":"worldwide"`)
			return []byte(`{"IpfsHash":"bafylicense"}`), nil
		})

	result, err := m.client.UploadLicense(context.Background(), pinning.LicenseInput{
		Type:     "reproduction-limited",
		Editions: &editions,
		PDFURL:   "https://artivio.example/licenses/vase.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "ipfs://bafylicense", result.MachineReadableURL)
	assert.Equal(t, "bafylicense", result.CID)
	require.NotNil(t, result.HumanReadableURL)
	assert.Equal(t, "https://artivio.example/licenses/vase.pdf", *result.HumanReadableURL)
	assert.Equal(t, &editions, result.Editions)
}

func TestUsage(t *testing.T) {
	m := setupPinning(t)

	m.http.EXPECT().
		GetJSON(gomock.Any(), "https://api.pinata.cloud/data/userPinnedDataTotal", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ http.Header, result interface{}) error {
			return json.Unmarshal([]byte(`{"pin_count":12,"pin_size_total":2048,"pin_size_with_replications_total":4096}`), result)
		})

	usage, err := m.client.Usage(context.Background())
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, int64(12), usage.PinCount)
	assert.Equal(t, int64(2048), usage.PinSizeTotal)
}

func TestUsage_Unavailable(t *testing.T) {
	m := setupPinning(t)
	m.http.EXPECT().GetJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("timeout"))

	usage, err := m.client.Usage(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, usage)
}
