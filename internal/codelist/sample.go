package codelist

// sampleCodes covers a handful of ICD-10-CM chapters at every depth the
// classifier distinguishes.
var sampleCodes = []string{
	// Certain infectious and parasitic diseases (A00-B99)
	"A00", "A00.0", "A00.1", "A00.9",
	"A01", "A01.0", "A01.1", "A01.2", "A01.3", "A01.4", "A01.9",
	"B00", "B00.0", "B00.1", "B00.2", "B00.9",

	// Neoplasms (C00-D49)
	"C00", "C00.0", "C00.1", "C00.2", "C00.3", "C00.4", "C00.5", "C00.6", "C00.8", "C00.9",
	"C50", "C50.0", "C50.1", "C50.2", "C50.3", "C50.4", "C50.5", "C50.6", "C50.8", "C50.9",

	// Diseases of the blood and immune mechanism (D50-D89)
	"D50", "D50.0", "D50.1", "D50.8", "D50.9",

	// Endocrine, nutritional and metabolic diseases (E00-E89)
	"E10", "E10.1", "E10.2", "E10.9",
	"E11", "E11.1", "E11.2", "E11.9",

	// Mental, behavioral and neurodevelopmental disorders (F01-F99)
	"F10", "F10.1", "F10.2", "F10.9",
	"F32", "F32.0", "F32.1", "F32.2", "F32.3", "F32.4", "F32.5", "F32.8", "F32.9",

	// Diseases of the circulatory system (I00-I99)
	"I10", "I11", "I11.0", "I11.9",
	"I20", "I20.0", "I20.1", "I20.8", "I20.9",
	"I21", "I21.0", "I21.1", "I21.2", "I21.3", "I21.4", "I21.9",

	// Diseases of the respiratory system (J00-J99)
	"J00", "J01", "J01.0", "J01.1", "J01.9",
	"J44", "J44.0", "J44.1", "J44.9",

	// Diseases of the musculoskeletal system (M00-M99)
	"M25", "M25.5", "M25.50", "M25.511", "M25.512", "M25.519",

	// Symptoms, signs and abnormal findings (R00-R99)
	"R50", "R50.9",
	"R51", "R51.0", "R51.9",
}

// Sample returns the built-in sample code list.
func Sample() *List {
	return FromCodes(sampleCodes)
}
