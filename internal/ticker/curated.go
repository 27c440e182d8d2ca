package ticker

// curatedEntry is a hand-maintained mapping from a well-known company name
// to its listed symbol. Checked before any external lookup.
type curatedEntry struct {
	Symbol   string
	Name     string
	Exchange string
}

// curated is keyed by the normalized company name.
var curated = map[string]curatedEntry{
	normalize("Apple Inc"):                {"AAPL", "Apple Inc.", "NASDAQ"},
	normalize("Alphabet Inc"):             {"GOOGL", "Alphabet Inc.", "NASDAQ"},
	normalize("Microsoft Corporation"):    {"MSFT", "Microsoft Corporation", "NASDAQ"},
	normalize("Amazon.com, Inc."):         {"AMZN", "Amazon.com, Inc.", "NASDAQ"},
	normalize("Tesla, Inc."):              {"TSLA", "Tesla, Inc.", "NASDAQ"},
	normalize("Meta Platforms, Inc."):     {"META", "Meta Platforms, Inc.", "NASDAQ"},
	normalize("NVIDIA Corporation"):       {"NVDA", "NVIDIA Corporation", "NASDAQ"},
	normalize("Reliance Industries"):      {"RELIANCE.NS", "Reliance Industries Limited", "NSE"},
	normalize("Tata Consultancy Services"):{"TCS.NS", "Tata Consultancy Services Limited", "NSE"},
	normalize("Infosys"):                  {"INFY.NS", "Infosys Limited", "NSE"},
	normalize("HDFC Bank"):                {"HDFCBANK.NS", "HDFC Bank Limited", "NSE"},
	normalize("ICICI Bank"):               {"ICICIBANK.NS", "ICICI Bank Limited", "NSE"},
}
