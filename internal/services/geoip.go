package services

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

type geoIPReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Metadata() maxminddb.Metadata
	Close() error
}

// GeoIPService resolves an IP to country/region/city from a local MaxMind
// database. Without a database every lookup returns "unknown".
type GeoIPService struct {
	logger    *slog.Logger
	geoReader geoIPReader
	geoLock   sync.RWMutex
}

func NewGeoIPService(logger *slog.Logger) *GeoIPService {
	return &GeoIPService{logger: logger}
}

// Open loads the database at path, replacing any previously loaded one.
// An empty path leaves lookups disabled.
func (s *GeoIPService) Open(path string) error {
	if path == "" {
		s.logger.Info("GeoIP: no database configured, lookups disabled")
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}

	reader, err := geoip2.Open(path)
	if err != nil {
		return err
	}
	s.setReader(reader)

	meta := reader.Metadata()
	s.logger.Info("GeoIP: Loaded database", "path", path, "type", meta.DatabaseType, "epoch", meta.BuildEpoch)
	return nil
}

func (s *GeoIPService) setReader(reader geoIPReader) {
	s.geoLock.Lock()
	defer s.geoLock.Unlock()

	if s.geoReader != nil {
		s.geoReader.Close()
	}
	s.geoReader = reader
}

func (s *GeoIPService) Close() error {
	s.geoLock.Lock()
	defer s.geoLock.Unlock()

	if s.geoReader == nil {
		return nil
	}
	err := s.geoReader.Close()
	s.geoReader = nil
	return err
}

// Enabled reports whether a database is loaded.
func (s *GeoIPService) Enabled() bool {
	if s == nil {
		return false
	}
	s.geoLock.RLock()
	defer s.geoLock.RUnlock()
	return s.geoReader != nil
}

// GetLocation returns unknownValue for any part it cannot resolve.
func (s *GeoIPService) GetLocation(ipStr string) (country, region, city string) {
	country, region, city = unknownValue, unknownValue, unknownValue

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return
	}
	if ip.IsLoopback() {
		return "Localhost", "Local", "Local"
	}
	if s == nil {
		return
	}

	s.geoLock.RLock()
	reader := s.geoReader
	s.geoLock.RUnlock()

	if reader == nil {
		return
	}

	record, err := reader.City(ip)
	if err != nil {
		s.logger.Error("GeoIP: Lookup error", "ip", ipStr, "error", err)
		return
	}

	if name, ok := record.Country.Names["en"]; ok && name != "" {
		country = name
	} else if record.Country.IsoCode != "" {
		country = record.Country.IsoCode
	}

	if len(record.Subdivisions) > 0 {
		if name, ok := record.Subdivisions[0].Names["en"]; ok && name != "" {
			region = name
		}
	}

	if name, ok := record.City.Names["en"]; ok && name != "" {
		city = name
	}

	return country, region, city
}
