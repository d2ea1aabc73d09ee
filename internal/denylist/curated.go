package denylist

// curatedDomains lists privacy-focused and throwaway providers that are always
// treated as anonymous, whatever the remote list contains.
var curatedDomains = []string{
	"proton.me", "protonmail.com", "protonmail.ch", "tutanota.com", "tuta.io",
	"riseup.net", "mailfence.com", "cock.li", "guerrillamail.com", "yopmail.com",
	"temp-mail.org", "mailinator.com", "dispostable.com", "10minutemail.com",
}

// portalDomains lists large general-purpose mail providers.
var portalDomains = []string{
	"gmail.com", "naver.com", "daum.net", "kakao.com", "outlook.com",
	"hotmail.com", "yahoo.com", "yandex.ru", "mail.ru",
}

// Curated returns a fresh copy of the curated anonymous-provider set.
func Curated() Set {
	return NewSet(curatedDomains)
}

// Portals returns a fresh copy of the public portal set.
func Portals() Set {
	return NewSet(portalDomains)
}
