// Package pinataproto описывает HTTP-протокол Pinata, который использует релей.
package pinataproto

// Параметры REST-протокола Pinata.
const (
	DefaultBaseURL  = "https://api.pinata.cloud"
	PinFilePath     = "/pinning/pinFileToIPFS"
	UnpinPathFormat = "/pinning/unpin/%s"
	TestAuthPath    = "/data/testAuthentication"

	HeaderAPIKey    = "pinata_api_key"
	HeaderAPISecret = "pinata_secret_api_key"

	FieldFile     = "file"
	FieldOptions  = "pinataOptions"
	FieldMetadata = "pinataMetadata"
)

// PinOptions: содержимое поля pinataOptions.
type PinOptions struct {
	CIDVersion int `json:"cidVersion"`
}

// PinResponse: ответ pinFileToIPFS.
type PinResponse struct {
	IpfsHash    string `json:"IpfsHash"`
	PinSize     int64  `json:"PinSize"`
	Timestamp   string `json:"Timestamp"`
	IsDuplicate bool   `json:"isDuplicate,omitempty"`
}
