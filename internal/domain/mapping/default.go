package mapping

// defaultEntries is the built-in LR mapping shipped with the original catalog
// mapper. Downstream consumers depend on this exact column set and order.
// Empty names are upstream schema gaps and are kept as they are.
var defaultEntries = []Entry{
	NewEntry("Brand Name", "brand", "*Brand", "Brand"),
	NewEntry("Color Grouping Code", "styleId", "*Style Code", "Style Code"),
	NewEntry("Vendor Style Code", "vendorSkuCode", "*Item SKU", "Seller SKU ID"),
	NewEntry("Size", "Standard Size", "*Size", "Size"),
	NewEntry("Color", "Brand Colour (Remarks)", "*Primary Color", "Brand Color"),
	NewEntry("Material", "Fabric", "*Fabric Detail", "Fabric"),
	NewEntry("MRP", "MRP", "*MRP", "MRP"),
	NewEntry("Selling Price", "Selling Price", "Selling Price", "Selling Price"),
	NewEntry("Stock / Inventory", "Stock Type", "Stock Type", ""),
	NewEntry("Print & Pattern", "Print or Pattern Type", "*Pattern", "Pattern"),
	NewEntry("Work", "Work", "Work", ""),
	NewEntry("Lining Material", "Lining Fabric", "*Lining", "Lining Material"),
	NewEntry("Sleeve Type", "Sleeve Styling", "Sleeve Type", "Sleeve Style"),
	NewEntry("Neck Type", "Neck", "*Neckline", "Neck"),
	NewEntry("Type", "Dress Shape", "*Style Type", "Dress Type"),
	NewEntry("Packed Width (inches)", "", "*articleDimensionsUnitWidth", "packageDimensionsWidth"),
	NewEntry("Packed Height (inches)", "", "*articleDimensionsUnitHeight", "packageDimensionsHeight"),
	NewEntry("Item Weight (kgs)", "", "*articleDimensionsUnitWeight", "packageDimensionsWeight"),
	NewEntry("Packed Length (inches)", "", "*articleDimensionsUnitLength", "packageDimensionsLength"),
	NewEntry("Pockets", "Number of Pockets", "Number of Pockets", ""),
	NewEntry("Care", "Wash Care", "Care", "Fabric Care"),
	NewEntry("Product Details", "Product Details", "*Product Name", "Description"),
	NewEntry("Image URL 1", "Front Image", "*Main Image URL", "Main Image URL"),
	NewEntry("Image URL 2", "Side Image", "Other Image URL 1", "Other Image URL 1"),
	NewEntry("Image URL 3", "Back Image", "Other Image URL 2", "Other Image URL 2"),
	NewEntry("Image URL 4", "Detail Angle", "Other Image URL 3", "Other Image URL 3"),
	NewEntry("Image URL 5", "Look Shot Image", "Other Image URL 4", "Other Image URL 4"),
	NewEntry("Transparency of Fabric", "Transparency", "Transparency", ""),
	NewEntry("Color Family", "Prominent Colour", "*Color Family", "Color"),
	NewEntry("Occasion", "Occasion", "*Occasion", "Occasion"),
	NewEntry("GST Rate", "", "", ""),
	NewEntry("HSN Code", "HSN", "*HSN", "EAN/UPC"),
	NewEntry("Closure", "Closure", "Closure", ""),
	NewEntry("Ideal for", "Ideal for", "Ideal for", "Ideal For"),
	NewEntry("GTIN", "GTIN", "GTIN", "EAN/UPC"),
	NewEntry("Manufacturing Date", "", "", ""),
	NewEntry("Country Of Origin", "Country Of Origin", "*Country of Origin", "Country Of Origin"),
	NewEntry("Fit", "", "fit", ""),
	NewEntry("Model Details", "", "model details", ""),
}

// Default returns a deep copy of the built-in mapping.
// Callers may mutate the result freely.
func Default() *Config {
	return NewConfig(defaultEntries...)
}
