package reference

// Country is the macro-region and ISO3 code for an entity name.
type Country struct {
	Region string
	ISO3   string
}

// countries is keyed by the entity names used upstream. Names are not
// normalized: aggregate entities such as "Europe" or "Americas" have their
// own entries and map to a representative country.
var countries = map[string]Country{
	"Peru":                    {Region: "Latin America", ISO3: "PER"},
	"India":                   {Region: "India", ISO3: "IND"},
	"Mexico":                  {Region: "North America", ISO3: "MEX"},
	"Asia Pacific":            {Region: "South Asia", ISO3: "IDN"},
	"Costa Rica":              {Region: "Latin America", ISO3: "CRI"},
	"Brazil":                  {Region: "Brazil", ISO3: "BRA"},
	"Paraguay":                {Region: "Latin America", ISO3: "PRY"},
	"Poland":                  {Region: "East Europe", ISO3: "POL"},
	"Greece":                  {Region: "West Europe", ISO3: "GRC"},
	"Tanzania":                {Region: "Africa", ISO3: "TZA"},
	"Egypt":                   {Region: "Africa", ISO3: "EGY"},
	"Burkina Faso":            {Region: "Africa", ISO3: "BFA"},
	"Middle East and Africa":  {Region: "Africa", ISO3: "IRN"},
	"Argentina":               {Region: "Argentina", ISO3: "ARG"},
	"Romania":                 {Region: "East Europe", ISO3: "ROU"},
	"Germany":                 {Region: "West Europe", ISO3: "DEU"},
	"Chile":                   {Region: "Latin America", ISO3: "CHL"},
	"Colombia":                {Region: "Latin America", ISO3: "COL"},
	"Russia":                  {Region: "West Europe", ISO3: "RUS"},
	"Malta":                   {Region: "West Europe", ISO3: "MLT"},
	"Singapore":               {Region: "North Asia", ISO3: "SGP"},
	"Italy":                   {Region: "West Europe", ISO3: "ITA"},
	"Thailand":                {Region: "South Asia", ISO3: "THA"},
	"South Korea":             {Region: "North Asia", ISO3: "KOR"},
	"Panama":                  {Region: "Latin America", ISO3: "PAN"},
	"Hong Kong":               {Region: "China", ISO3: "HKG"},
	"China, Mainland":         {Region: "China", ISO3: "CHN"},
	"Philippines":             {Region: "South Asia", ISO3: "PHL"},
	"Indonesia":               {Region: "South Asia", ISO3: "IDN"},
	"Portugal":                {Region: "West Europe", ISO3: "PRT"},
	"Botswana":                {Region: "Africa", ISO3: "BWA"},
	"Uganda":                  {Region: "Africa", ISO3: "UGA"},
	"Hungary":                 {Region: "East Europe", ISO3: "HUN"},
	"Ghana":                   {Region: "Africa", ISO3: "GHA"},
	"Tunisia":                 {Region: "Africa", ISO3: "TUN"},
	"Bulgaria":                {Region: "East Europe", ISO3: "BGR"},
	"Sri Lanka":               {Region: "South Asia", ISO3: "LKA"},
	"Taiwan":                  {Region: "South Asia", ISO3: "TWN"},
	"Americas":                {Region: "Latin America", ISO3: "CRI"},
	"Czech Republic":          {Region: "East Europe", ISO3: "CZE"},
	"Ecuador":                 {Region: "Latin America", ISO3: "ECU"},
	"United States":           {Region: "United States", ISO3: "USA"},
	"Guatemala":               {Region: "Latin America", ISO3: "GTM"},
	"Canada":                  {Region: "Canada", ISO3: "CAN"},
	"Turkey":                  {Region: "Turkey", ISO3: "TUR"},
	"Belgium":                 {Region: "West Europe", ISO3: "BEL"},
	"Malaysia":                {Region: "South Asia", ISO3: "MYS"},
	"Cameroon":                {Region: "Africa", ISO3: "CMR"},
	"Pakistan":                {Region: "Middle East", ISO3: "PAK"},
	"Japan":                   {Region: "North Asia", ISO3: "JPN"},
	"Mauritius":               {Region: "Africa", ISO3: "MUS"},
	"Cambodia":                {Region: "South Asia", ISO3: "KHM"},
	"Montenegro":              {Region: "East Europe", ISO3: "MNE"},
	"Ukraine":                 {Region: "East Europe", ISO3: "UKR"},
	"Serbia":                  {Region: "East Europe", ISO3: "SRB"},
	"Slovakia":                {Region: "East Europe", ISO3: "SVK"},
	"El Salvador":             {Region: "Latin America", ISO3: "SLV"},
	"Europe":                  {Region: "West Europe", ISO3: "FRA"},
	"Iran":                    {Region: "Middle East", ISO3: "IRN"},
	"Morocco":                 {Region: "Africa", ISO3: "MAR"},
	"The Netherlands":         {Region: "West Europe", ISO3: "NLD"},
	"Norway":                  {Region: "West Europe", ISO3: "NOR"},
	"Spain":                   {Region: "West Europe", ISO3: "ESP"},
	"Lithuania":               {Region: "East Europe", ISO3: "LTU"},
	"South Africa":            {Region: "Africa", ISO3: "ZAF"},
	"Venezuela":               {Region: "Latin America", ISO3: "VEN"},
	"Vietnam":                 {Region: "South Asia", ISO3: "VNM"},
	"Nepal":                   {Region: "Middle East", ISO3: "NPL"},
	"Nigeria":                 {Region: "Africa", ISO3: "NGA"},
	"Kazakhstan":              {Region: "Middle East", ISO3: "KAZ"},
	"Finland":                 {Region: "West Europe", ISO3: "FIN"},
	"Georgia":                 {Region: "East Europe", ISO3: "GEO"},
	"Bahrain":                 {Region: "Africa", ISO3: "BHR"},
	"Namibia":                 {Region: "Africa", ISO3: "NAM"},
	"Australia":               {Region: "Australia", ISO3: "AUS"},
	"Rwanda":                  {Region: "Africa", ISO3: "RWA"},
	"Denmark":                 {Region: "West Europe", ISO3: "DNK"},
	"Slovenia":                {Region: "East Europe", ISO3: "SVN"},
	"Switzerland":             {Region: "West Europe", ISO3: "CHE"},
	"Togo":                    {Region: "Africa", ISO3: "TGO"},
	"Croatia":                 {Region: "East Europe", ISO3: "HRV"},
	"Gabon":                   {Region: "Africa", ISO3: "GAB"},
	"Lebanon":                 {Region: "Middle East", ISO3: "LBN"},
	"Bolivia":                 {Region: "East Europe", ISO3: "BOL"},
	"United Kingdom":          {Region: "West Europe", ISO3: "GBR"},
	"Benin":                   {Region: "Africa", ISO3: "BEN"},
	"France":                  {Region: "West Europe", ISO3: "FRA"},
	"Ethiopia":                {Region: "Africa", ISO3: "ETH"},
	"Uruguay":                 {Region: "Latin America", ISO3: "URY"},
	"Kyrgyzstan":              {Region: "Middle East", ISO3: "KGZ"},
	"Mozambique":              {Region: "Africa", ISO3: "MOZ"},
	"Moldova":                 {Region: "East Europe", ISO3: "MDA"},
	"Ireland":                 {Region: "West Europe", ISO3: "IRL"},
	"Sweden":                  {Region: "West Europe", ISO3: "SWE"},
	"Oman":                    {Region: "Middle East", ISO3: "OMN"},
	"Algeria":                 {Region: "Africa", ISO3: "DZA"},
	"Senegal":                 {Region: "Africa", ISO3: "SEN"},
	"Myanmar":                 {Region: "South Asia", ISO3: "MMR"},
	"Azerbaijan":              {Region: "Middle East", ISO3: "AZE"},
	"Austria":                 {Region: "East Europe", ISO3: "AUT"},
	"New Zealand":             {Region: "Australia", ISO3: "NZL"},
	"Afghanistan":             {Region: "Middle East", ISO3: "AFG"},
	"Kenya":                   {Region: "Africa", ISO3: "KEN"},
	"Belarus":                 {Region: "East Europe", ISO3: "BLR"},
	"Cote D'Ivoire":           {Region: "Africa", ISO3: "CIV"},
	"Dominican Republic":      {Region: "Latin America", ISO3: "DOM"},
	"Albania":                 {Region: "East Europe", ISO3: "ALB"},
	"Liberia":                 {Region: "Africa", ISO3: "LBR"},
	"Estonia":                 {Region: "East Europe", ISO3: "EST"},
	"Armenia":                 {Region: "Middle East", ISO3: "ARM"},
	"Macedonia":               {Region: "East Europe", ISO3: "MKD"},
	"Bosnia and Herzegovina":  {Region: "East Europe", ISO3: "BIH"},
	"Mongolia":                {Region: "Middle East", ISO3: "MNG"},
	"Jordan":                  {Region: "Middle East", ISO3: "JOR"},
	"Cabo Verde":              {Region: "Africa", ISO3: "CPV"},
	"Tajikistan":              {Region: "Middle East", ISO3: "TJK"},
	"Nicaragua":               {Region: "Latin America", ISO3: "NIC"},
	"United Arab Emirates":    {Region: "Middle East", ISO3: "ARE"},
	"Latvia":                  {Region: "East Europe", ISO3: "LVA"},
	"Laos":                    {Region: "South Asia", ISO3: "LAO"},
	"Puerto Rico":             {Region: "Latin America", ISO3: "PRI"},
	"Iceland":                 {Region: "West Europe", ISO3: "ISL"},
	"LUXEMBOURG (CLOSED)":     {Region: "West Europe", ISO3: "LUX"},
	"Qatar":                   {Region: "Middle East", ISO3: "QAT"},
	"Malawi":                  {Region: "Africa", ISO3: "MWI"},
	"Kuwait":                  {Region: "Middle East", ISO3: "KWT"},
	"Seychelles":              {Region: "South Asia", ISO3: "SYC"},
	"Bangladesh":              {Region: "South Asia", ISO3: "BGD"},
	"Liechtenstein":           {Region: "East Europe", ISO3: "LIE"},
	"Haiti":                   {Region: "Latin America", ISO3: "HTI"},
	"Kingdom of Saudi Arabia": {Region: "Middle East", ISO3: "SAU"},
	"Cuba":                    {Region: "Latin America", ISO3: "CUB"},
	"Uzbekistan":              {Region: "Middle East", ISO3: "UZB"},
	"Cyprus":                  {Region: "Africa", ISO3: "CYP"},
	"Fiji":                    {Region: "South Asia", ISO3: "FJI"},
	"Mali":                    {Region: "Africa", ISO3: "MLI"},
}

// LookupCountry returns the reference entry for an entity name.
func LookupCountry(entity string) (Country, bool) {
	c, ok := countries[entity]
	return c, ok
}

// CountryCount reports the number of reference entries.
func CountryCount() int {
	return len(countries)
}
