package config

const (
	FormsBackendSimulated = "simulated"
	FormsBackendHTTP      = "http"
	FormsBackendSQLite    = "sqlite"

	UploadsBackendDataURI = "datauri"
	UploadsBackendFS      = "fs"
	UploadsBackendS3      = "s3"

	AuthTypeEd25519 = "ed25519"
	AuthTypeClerk   = "clerk"
)
