package entity

import "time"

type Seller struct {
	Id        string
	UserId    string
	Name      string
	CreatedAt time.Time
}

// Scope selects whose activity is measured. The zero value is the whole
// platform.
type Scope struct {
	SellerId     string
	SellerUserId string
}

// PlatformScope covers every seller.
func PlatformScope() Scope {
	return Scope{}
}

// SellerScope covers a single seller.
func SellerScope(s *Seller) Scope {
	return Scope{
		SellerId:     s.Id,
		SellerUserId: s.UserId,
	}
}

// IsPlatform reports whether the scope spans all sellers.
func (s Scope) IsPlatform() bool {
	return s.SellerId == ""
}
