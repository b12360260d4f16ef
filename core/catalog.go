package core

// DefaultCatalog returns the eight items every fresh auction starts with.
func DefaultCatalog() []NewItem {
	return []NewItem{
		{Name: "Wireless Headphones", Description: "RGB Gaming Edition", StartingPrice: Money(50), MaxBid: Money(150)},
		{Name: "Gaming Controller", Description: "Glow in the dark!", StartingPrice: Money(35), MaxBid: Money(100)},
		{Name: "Phone Ring Light", Description: "Perfect for TikToks!", StartingPrice: Money(15), MaxBid: Money(50)},
		{Name: "LED Backpack", Description: "Changes colors!", StartingPrice: Money(40), MaxBid: Money(120)},
		{Name: "Mini Skateboard", Description: "Fingerboard pro set", StartingPrice: Money(10), MaxBid: Money(40)},
		{Name: "Bubble Tea Kit", Description: "Make your own boba!", StartingPrice: Money(20), MaxBid: Money(60)},
		{Name: "Karaoke Mic", Description: "Bluetooth speaker", StartingPrice: Money(25), MaxBid: Money(80)},
		{Name: "LED Strip Lights", Description: "16 million colors!", StartingPrice: Money(18), MaxBid: Money(55)},
	}
}
