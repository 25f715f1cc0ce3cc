package models

import "strings"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Country is a static reference entry mirroring the Skyscanner place
// hierarchy: EntityID is the Skyscanner entity, ParentID the continent.
type Country struct {
	EntityID    int         `json:"entityId"`
	ParentID    int         `json:"parentId"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	IsoCode     string      `json:"isoCode"`
}

type Continent struct {
	EntityID    string      `json:"entityId"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Coordinates Coordinates `json:"coordinates"`
}

// SearchCountryByName returns the first country whose name contains the
// query, case-insensitively, or nil when nothing matches.
func SearchCountryByName(name string) *Country {
	for i := range countries {
		if strings.Contains(strings.ToLower(countries[i].Name), strings.ToLower(name)) {
			return &countries[i]
		}
	}
	return nil
}

func SearchCountryByISO(iso string) *Country {
	for i := range countries {
		if strings.EqualFold(countries[i].IsoCode, iso) {
			return &countries[i]
		}
	}
	return nil
}

func SearchContinentByName(name string) *Continent {
	for i := range continents {
		if strings.Contains(strings.ToLower(continents[i].Name), strings.ToLower(name)) {
			return &continents[i]
		}
	}
	return nil
}

// CountryNames lists every country in the reference table, used to
// constrain destination suggestions to places flight pricing can resolve.
func CountryNames() []string {
	names := make([]string, len(countries))
	for i, c := range countries {
		names[i] = c.Name
	}
	return names
}

const continentEurope = 27563221

var continents = []Continent{
	{EntityID: "205351567", Name: "North America", Type: "PLACE_TYPE_CONTINENT", Coordinates: Coordinates{56.4203028702821, -92.41051848992336}},
	{EntityID: "205351568", Name: "South America", Type: "PLACE_TYPE_CONTINENT", Coordinates: Coordinates{-15.126347372188903, -60.784267219684395}},
	{EntityID: "27563220", Name: "Africa", Type: "PLACE_TYPE_CONTINENT", Coordinates: Coordinates{6.3748017182, 18.2433296135}},
	{EntityID: "27563221", Name: "Europe", Type: "PLACE_TYPE_CONTINENT", Coordinates: Coordinates{55.280210962380146, 29.382113552883705}},
	{EntityID: "27563222", Name: "Asia", Type: "PLACE_TYPE_CONTINENT", Coordinates: Coordinates{45.0390122417, 96.0944165084}},
	{EntityID: "27563223", Name: "Oceania", Type: "PLACE_TYPE_CONTINENT", Coordinates: Coordinates{-21.274035826123804, 133.47223041864578}},
}

// European subset of the Skyscanner country hierarchy. Suggestions are
// restricted to this list, so there is no need to carry the full table.
var countries = []Country{
	{EntityID: 29475259, ParentID: continentEurope, Name: "Albania", Coordinates: Coordinates{41.131855457, 20.0447636388}, IsoCode: "AL"},
	{EntityID: 29475379, ParentID: continentEurope, Name: "Austria", Coordinates: Coordinates{47.5881089798, 14.1441273301}, IsoCode: "AT"},
	{EntityID: 29475251, ParentID: continentEurope, Name: "Belarus", Coordinates: Coordinates{53.546160362, 28.0604595892}, IsoCode: "BY"},
	{EntityID: 29475380, ParentID: continentEurope, Name: "Belgium", Coordinates: Coordinates{50.6417020662, 4.6597255545}, IsoCode: "BE"},
	{EntityID: 29475396, ParentID: continentEurope, Name: "Bosnia and Herzegovina", Coordinates: Coordinates{44.1755070302, 17.7887811875}, IsoCode: "BA"},
	{EntityID: 29475258, ParentID: continentEurope, Name: "Bulgaria", Coordinates: Coordinates{42.7620578045, 25.2366815333}, IsoCode: "BG"},
	{EntityID: 29475102, ParentID: continentEurope, Name: "Croatia", Coordinates: Coordinates{44.9569774011, 16.3134922106}, IsoCode: "HR"},
	{EntityID: 29475197, ParentID: continentEurope, Name: "Cyprus", Coordinates: Coordinates{35.050566659413356, 33.2375900131998}, IsoCode: "CY"},
	{EntityID: 29475373, ParentID: continentEurope, Name: "Denmark", Coordinates: Coordinates{55.9318101323, 10.0947171398}, IsoCode: "DK"},
	{EntityID: 29475233, ParentID: continentEurope, Name: "Estonia", Coordinates: Coordinates{58.6800566979, 25.4093888843}, IsoCode: "EE"},
	{EntityID: 29475253, ParentID: continentEurope, Name: "Finland", Coordinates: Coordinates{64.3678289207, 26.1132870139}, IsoCode: "FI"},
	{EntityID: 29475385, ParentID: continentEurope, Name: "France", Coordinates: Coordinates{46.5525478148, 2.5256872161}, IsoCode: "FR"},
	{EntityID: 29475381, ParentID: continentEurope, Name: "Germany", Coordinates: Coordinates{51.1542564766, 10.3963477533}, IsoCode: "DE"},
	{EntityID: 29475229, ParentID: continentEurope, Name: "Greece", Coordinates: Coordinates{38.9287708046, 23.0651983495}, IsoCode: "GR"},
	{EntityID: 29475257, ParentID: continentEurope, Name: "Hungary", Coordinates: Coordinates{47.1676635925, 19.4111128707}, IsoCode: "HU"},
	{EntityID: 29475374, ParentID: continentEurope, Name: "Iceland", Coordinates: Coordinates{65.0214175216, -18.7127229735}, IsoCode: "IS"},
	{EntityID: 29475383, ParentID: continentEurope, Name: "Ireland", Coordinates: Coordinates{53.1823172275, -8.2364947844}, IsoCode: "IE"},
	{EntityID: 29475393, ParentID: continentEurope, Name: "Italy", Coordinates: Coordinates{42.7294626566, 12.097084159}, IsoCode: "IT"},
	{EntityID: 29475236, ParentID: continentEurope, Name: "Latvia", Coordinates: Coordinates{56.8552599784, 24.9199790662}, IsoCode: "LV"},
	{EntityID: 29475240, ParentID: continentEurope, Name: "Lithuania", Coordinates: Coordinates{55.3351733711, 23.8986884198}, IsoCode: "LT"},
	{EntityID: 29475382, ParentID: continentEurope, Name: "Luxembourg", Coordinates: Coordinates{49.7749074655, 6.0938287282}, IsoCode: "LU"},
	{EntityID: 29475371, ParentID: continentEurope, Name: "Malta", Coordinates: Coordinates{35.9267363037, 14.3984298727}, IsoCode: "MT"},
	{EntityID: 29475249, ParentID: continentEurope, Name: "Moldova", Coordinates: Coordinates{47.2016735578, 28.4720566816}, IsoCode: "MD"},
	{EntityID: 29475395, ParentID: continentEurope, Name: "Montenegro", Coordinates: Coordinates{42.7683085783, 19.2307196961}, IsoCode: "ME"},
	{EntityID: 29475378, ParentID: continentEurope, Name: "Netherlands", Coordinates: Coordinates{52.267659889, 5.5654672212}, IsoCode: "NL"},
	{EntityID: 29475390, ParentID: continentEurope, Name: "Norway", Coordinates: Coordinates{68.58552678092275, 15.32775776500167}, IsoCode: "NO"},
	{EntityID: 29475260, ParentID: continentEurope, Name: "Poland", Coordinates: Coordinates{52.1313582688, 19.3970229231}, IsoCode: "PL"},
	{EntityID: 29475349, ParentID: continentEurope, Name: "Portugal", Coordinates: Coordinates{39.5589102406, -8.6203657658}, IsoCode: "PT"},
	{EntityID: 29475261, ParentID: continentEurope, Name: "Romania", Coordinates: Coordinates{45.8449438849, 24.9818447231}, IsoCode: "RO"},
	{EntityID: 29475438, ParentID: continentEurope, Name: "Serbia", Coordinates: Coordinates{44.2230290897, 20.7788078513}, IsoCode: "RS"},
	{EntityID: 29475388, ParentID: continentEurope, Name: "Slovakia", Coordinates: Coordinates{48.7094546865, 19.4835994005}, IsoCode: "SK"},
	{EntityID: 29475394, ParentID: continentEurope, Name: "Slovenia", Coordinates: Coordinates{46.123233192, 14.8155350871}, IsoCode: "SI"},
	{EntityID: 29475369, ParentID: continentEurope, Name: "Spain", Coordinates: Coordinates{40.20529473045569, -3.6590579043568927}, IsoCode: "ES"},
	{EntityID: 29475377, ParentID: continentEurope, Name: "Sweden", Coordinates: Coordinates{62.6911503511, 16.7801817}, IsoCode: "SE"},
	{EntityID: 29475376, ParentID: continentEurope, Name: "Switzerland", Coordinates: Coordinates{46.81021982238213, 8.241289229298554}, IsoCode: "CH"},
	{EntityID: 29475255, ParentID: continentEurope, Name: "Ukraine", Coordinates: Coordinates{49.1493532179, 31.2936894063}, IsoCode: "UA"},
	{EntityID: 29475375, ParentID: continentEurope, Name: "United Kingdom", Coordinates: Coordinates{54.2532367516, -2.9767221462}, IsoCode: "GB"},
}
