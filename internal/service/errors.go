package service

import (
	"errors"
	"fmt"

	"github.com/UnknownOlympus/florist/internal/locations"
)

// Sentinel errors returned by the shop query.
var (
	// ErrQueryFailed covers network errors, non-2xx answers and undecodable payloads.
	ErrQueryFailed = errors.New("shop query failed")
	// ErrNoShops is returned when the query succeeded but produced no usable shop.
	ErrNoShops = errors.New("no florist shops found")
	// ErrLookupFailed is returned when an address could not be resolved.
	ErrLookupFailed = errors.New("address lookup failed")
)

// Messages shown to the user.
const (
	MsgLocationsUnavailable = "Lỗi khi tải danh sách tỉnh/thành phố."
	MsgQueryFailed          = "Lỗi khi tải dữ liệu cửa hàng hoa."
	MsgLoading              = "Đang tải dữ liệu cửa hàng hoa..."
	MsgLookupFailed         = "Không tìm được địa chỉ."
	msgNoShops              = "Không tìm thấy cửa hàng hoa nào ở %s."
)

// UserMessage maps an error returned by this package to the text shown for
// the selected city.
func UserMessage(err error, city string) string {
	switch {
	case errors.Is(err, ErrNoShops):
		return fmt.Sprintf(msgNoShops, city)
	case errors.Is(err, locations.ErrTableUnavailable):
		return MsgLocationsUnavailable
	case errors.Is(err, ErrLookupFailed):
		return MsgLookupFailed
	default:
		return MsgQueryFailed
	}
}
