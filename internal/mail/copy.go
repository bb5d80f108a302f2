package mail

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is the locale used when none is configured. The product
// copy was written for Brazilian Portuguese.
var DefaultLocale = language.BrazilianPortuguese

const (
	keyOwnerSubject      = "mail.owner.subject"
	keyOwnerHeading      = "mail.owner.heading"
	keyOwnerIntro        = "mail.owner.intro"
	keyInviteSubject     = "mail.invite.subject"
	keyInviteHeading     = "mail.invite.heading"
	keyInviteIntro       = "mail.invite.intro"
	keyDetailDestination = "mail.detail.destination"
	keyDetailStartsAt    = "mail.detail.starts_at"
	keyDetailEndsAt      = "mail.detail.ends_at"
	keyConfirm           = "mail.confirm"
	keySignoff           = "mail.signoff"
	keyTeam              = "mail.team"
	keyLongDate          = "date.long"
	keyMonthPrefix       = "date.month."
)

var months = [...]string{
	"", "january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

func init() {
	pt := language.BrazilianPortuguese
	message.SetString(pt, keyOwnerSubject, "Confirme sua viagem para %s em %s")
	message.SetString(pt, keyOwnerHeading, "Confirmação do Pedido de Viagem")
	message.SetString(pt, keyOwnerIntro, "Recebemos seu pedido de viagem com os seguintes detalhes:")
	message.SetString(pt, keyInviteSubject, "Confirme sua presença na viagem para %s em %s")
	message.SetString(pt, keyInviteHeading, "Confirmação do convite de Viagem")
	message.SetString(pt, keyInviteIntro, "Você foi convidado para uma viagem. Confirme sua presença clicando abaixo.")
	message.SetString(pt, keyDetailDestination, "Destino")
	message.SetString(pt, keyDetailStartsAt, "Data de Partida")
	message.SetString(pt, keyDetailEndsAt, "Data de Retorno")
	message.SetString(pt, keyConfirm, "Confirmar")
	message.SetString(pt, keySignoff, "Atenciosamente,")
	message.SetString(pt, keyTeam, "Equipe plann.er")
	message.SetString(pt, keyLongDate, "%s de %s de %s")
	for i, m := range []string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	} {
		message.SetString(pt, keyMonthPrefix+months[i+1], m)
	}

	en := language.English
	message.SetString(en, keyOwnerSubject, "Confirm your trip to %s on %s")
	message.SetString(en, keyOwnerHeading, "Trip request confirmation")
	message.SetString(en, keyOwnerIntro, "We received your trip request with the following details:")
	message.SetString(en, keyInviteSubject, "Confirm you are joining the trip to %s on %s")
	message.SetString(en, keyInviteHeading, "Trip invitation")
	message.SetString(en, keyInviteIntro, "You have been invited to a trip. Confirm you are coming using the link below.")
	message.SetString(en, keyDetailDestination, "Destination")
	message.SetString(en, keyDetailStartsAt, "Departure")
	message.SetString(en, keyDetailEndsAt, "Return")
	message.SetString(en, keyConfirm, "Confirm")
	message.SetString(en, keySignoff, "Best regards,")
	message.SetString(en, keyTeam, "The plann.er team")
	message.SetString(en, keyLongDate, "%[2]s %[1]s, %[3]s")
	for i, m := range []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	} {
		message.SetString(en, keyMonthPrefix+months[i+1], m)
	}
}

var (
	supported = []language.Tag{language.BrazilianPortuguese, language.English}
	matcher   = language.NewMatcher(supported)
)

// matchLocale returns the best supported tag for locale. Empty or
// unmatched locales fall back to DefaultLocale.
func matchLocale(locale string) language.Tag {
	parsed, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	if _, idx, conf := matcher.Match(parsed); conf != language.No {
		return supported[idx]
	}
	return DefaultLocale
}

// NewPrinter returns a message printer for the best supported match of locale.
func NewPrinter(locale string) *message.Printer {
	return message.NewPrinter(matchLocale(locale))
}

// LongDate formats t in the long localized form, e.g. "10 de janeiro de 2024".
// The date is taken in UTC so every recipient sees the same day.
func LongDate(p *message.Printer, t time.Time) string {
	y, m, d := t.UTC().Date()
	month := p.Sprintf(message.Key(keyMonthPrefix+months[m], months[m]))
	// Numbers go in as strings: the printer would otherwise group the year as "2.024".
	return p.Sprintf(keyLongDate, strconv.Itoa(d), month, strconv.Itoa(y))
}
