package types

// Kind discriminates the variants of Mail.
type Kind int

const (
	KindMessage Kind = iota + 1
	KindParcel
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindParcel:
		return "parcel"
	default:
		return "unknown"
	}
}

// Mail is a piece of correspondence. The set of implementations is closed:
// only Message and Parcel satisfy it.
//
// Both variants are comparable values, so two Mail values are equal under ==
// iff they are of the same variant and every field is equal.
type Mail interface {
	Sender() string
	Recipient() string
	Kind() Kind
	mail()
}

type Message struct {
	sender    string
	recipient string
	body      string
}

func NewMessage(sender, recipient, body string) Message {
	return Message{
		sender:    sender,
		recipient: recipient,
		body:      body,
	}
}

func (m Message) Sender() string {
	return m.sender
}

func (m Message) Recipient() string {
	return m.recipient
}

func (m Message) Body() string {
	return m.body
}

func (Message) Kind() Kind {
	return KindMessage
}

func (Message) mail() {}

type Parcel struct {
	sender    string
	recipient string
	content   Package
}

func NewParcel(sender, recipient string, content Package) Parcel {
	return Parcel{
		sender:    sender,
		recipient: recipient,
		content:   content,
	}
}

func (p Parcel) Sender() string {
	return p.sender
}

func (p Parcel) Recipient() string {
	return p.recipient
}

func (p Parcel) Content() Package {
	return p.content
}

func (Parcel) Kind() Kind {
	return KindParcel
}

func (Parcel) mail() {}

// Package is the content of a Parcel. Two packages are equal iff their
// descriptions and prices are equal.
type Package struct {
	description string
	price       int
}

func NewPackage(description string, price int) Package {
	return Package{
		description: description,
		price:       price,
	}
}

func (p Package) Description() string {
	return p.description
}

func (p Package) Price() int {
	return p.price
}
