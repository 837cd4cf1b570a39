package config

const (
	// DefaultDatabasePath is the default path for the bookmark and recents database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultCatalogBaseURL is the Kakao search API host
	DefaultCatalogBaseURL = "https://dapi.kakao.com"
)

// DefaultCoverHosts lists the CDNs catalog thumbnails are served from
const DefaultCoverHosts = "search1.kakaocdn.net,t1.daumcdn.net"
