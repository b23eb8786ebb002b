package urlfilter

import "strings"

// DefaultBlocklist lists domains that never identify a genuine employer site.
// Entries containing a path only block that path and what lies below it.
var DefaultBlocklist = []string{
	// hosting & CMS
	"square.com", "rocket.net", "hostinger.com", "squarespace.com", "wordpress.org", "wix.com",
	"netlify.com", "render.com", "builder.io",
	// social & messaging
	"x.com", "twitter.com", "facebook.com", "instagram.com", "linkedin.com", "pinterest.com",
	"snapchat.com", "tiktok.com", "telegram.me", "t.me", "discord.com", "threads.net",
	"whatsapp.com", "reddit.com",
	// finance & payments
	"robinhood.com", "paypal.com", "stripe.com", "coinbase.com", "blockchain.com", "venmo.com",
	"zelle.com", "squareup.com", "cash.app",
	// crypto & web3
	"web3.js", "etherscan.io", "opensea.io", "metamask.io", "trustwallet.com", "cryptocompare.com",
	"binance.com",
	// business & marketing tools
	"hubspot.com", "salesforce.com", "activecampaign.com", "mailchimp.com", "klaviyo.com",
	"customer.io", "aloware.com", "apollo.io", "zoho.com", "expensify.com", "dribbble.com",
	"frame.io", "framer.com",
	// e-commerce & marketplaces
	"amazon.com", "ebay.com", "shopify.com", "walmart.com", "etsy.com", "rakuten.com",
	"bestbuy.com", "target.com", "booking.com",
	// software development
	"github.com", "gitlab.com", "bitbucket.org", "node.js", "react.js", "next.js", "vue.js",
	"nest.js", "nuxt.js", "asp.net",
	// media & publishing
	"medium.com", "forbes.com", "scribd.com", "goodreads.com", "speedtest.net",
	// email providers
	"gmail.com", "outlook.com", "hotmail.com", "yahoo.com", "icloud.com", "protonmail.com",
	"aol.com",
	// url shorteners
	"bit.ly", "tinyurl.com", "t.co", "shorturl.at", "cutt.ly",
	// automation
	"make.com", "zapier.com",
	// job platforms
	"upwork.com", "freelancer.com", "fiverr.com", "linkedin.com/jobs", "indeed.com",
	"monster.com", "glassdoor.com",
}

// Validator decides whether a URL may be scraped as an employer site.
type Validator struct {
	hosts map[string]struct{}
	paths []string
}

// NewValidator builds a validator from the given blocklist entries.
func NewValidator(blocked []string) *Validator {
	v := &Validator{hosts: make(map[string]struct{}, len(blocked))}
	for _, entry := range blocked {
		entry = strings.TrimSuffix(Normalize(entry), "/")
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			v.paths = append(v.paths, entry)
			continue
		}
		v.hosts[entry] = struct{}{}
	}
	return v
}

// IsValid reports whether url has a dotted host that is neither blocked, nor a subdomain of a
// blocked host, nor under a blocked path. Userinfo and port are ignored when matching the host.
func (v *Validator) IsValid(url string) bool {
	normalized := Normalize(url)

	authority, rest := normalized, ""
	if idx := strings.IndexAny(normalized, "/?#"); idx >= 0 {
		authority, rest = normalized[:idx], normalized[idx:]
	}
	host := authority
	if idx := strings.LastIndex(host, "@"); idx >= 0 {
		host = host[idx+1:]
	}
	host = strings.TrimPrefix(host, "www.")
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		host = host[:idx]
	}
	host = strings.TrimRight(host, ".")
	if host == "" || !strings.Contains(host, ".") {
		return false
	}

	for candidate := host; candidate != ""; {
		if _, blocked := v.hosts[candidate]; blocked {
			return false
		}
		idx := strings.Index(candidate, ".")
		if idx < 0 {
			break
		}
		candidate = candidate[idx+1:]
	}

	target := host + rest
	for _, p := range v.paths {
		if target == p || strings.HasPrefix(target, p+"/") {
			return false
		}
	}
	return true
}

// Blocked is the inverse of IsValid.
func (v *Validator) Blocked(url string) bool {
	return !v.IsValid(url)
}
